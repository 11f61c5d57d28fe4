// Package quoteapi parses quote api flags and launches the service.
package quoteapi

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	entrypoint "github.com/louisbranch/credix-checkout/internal/platform/cmd"
	server "github.com/louisbranch/credix-checkout/internal/services/quoteapi"
)

// Config holds quote api command configuration.
type Config struct {
	HTTPAddr string `env:"CREDIX_QUOTEAPI_HTTP_ADDR" envDefault:":8000"`
	SeedPath string `env:"CREDIX_QUOTEAPI_SEED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "YAML seed file; the embedded seed when empty")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadSeed reads the seed at path, or the embedded seed when path is empty.
func LoadSeed(path string) (server.Seed, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return server.DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return server.Seed{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return server.LoadSeed(f)
}

// Run starts the quote api service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceQuoteAPI, func(ctx context.Context) error {
		seed, err := LoadSeed(cfg.SeedPath)
		if err != nil {
			return err
		}
		srv, err := server.NewServer(server.Config{HTTPAddr: cfg.HTTPAddr, Seed: seed})
		if err != nil {
			return fmt.Errorf("init quote api server: %w", err)
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve quote api: %w", err)
		}
		return nil
	})
}
