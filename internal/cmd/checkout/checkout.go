// Package checkout parses checkout service flags and launches the service.
package checkout

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	domain "github.com/louisbranch/credix-checkout/internal/checkout"
	entrypoint "github.com/louisbranch/credix-checkout/internal/platform/cmd"
	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	server "github.com/louisbranch/credix-checkout/internal/services/checkout"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/pricing"
	"github.com/shopspring/decimal"
)

// DefaultCart is the cart every session starts with unless overridden.
const DefaultCart = "oweuriek:Product A:100:1,eepheeje:Product B:150:2"

// Config holds checkout command configuration.
type Config struct {
	HTTPAddr            string        `env:"CREDIX_CHECKOUT_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"CREDIX_CHECKOUT_API_BASE_URL"`
	Env                 string        `env:"CREDIX_CHECKOUT_ENV" envDefault:"local"`
	Cart                string        `env:"CREDIX_CHECKOUT_CART"`
	MetricsEnabled      bool          `env:"CREDIX_CHECKOUT_METRICS_ENABLED" envDefault:"true"`
	SessionIdleTTL      time.Duration `env:"CREDIX_CHECKOUT_SESSION_TTL" envDefault:"30m"`
	MaxSessions         int           `env:"CREDIX_CHECKOUT_MAX_SESSIONS" envDefault:"10000"`
	PricingTimeout      time.Duration `env:"CREDIX_CHECKOUT_PRICING_TIMEOUT" envDefault:"10s"`
	TrustForwardedProto bool          `env:"CREDIX_CHECKOUT_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Pricing api base URL; overrides -env")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Deployment environment (local or production)")
	fs.StringVar(&cfg.Cart, "cart", cfg.Cart, "Cart as a comma separated sku:name:price:qty list")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "Expose Prometheus metrics at /metrics")
	fs.DurationVar(&cfg.SessionIdleTTL, "session-ttl", cfg.SessionIdleTTL, "Idle checkout session lifetime")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "Checkout sessions held in memory before the least recent is evicted")
	fs.DurationVar(&cfg.PricingTimeout, "pricing-timeout", cfg.PricingTimeout, "Per-request pricing api timeout; 0 disables it")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := ParseCart(cfg.Cart); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseCart reads a sku:name:price:qty list. An empty value yields
// DefaultCart.
func ParseCart(raw string) (domain.Cart, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultCart
	}
	var items []domain.CartItem
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return domain.Cart{}, malformedCart(entry, "want sku:name:price:qty", nil)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return domain.Cart{}, malformedCart(entry, "bad price", err)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			return domain.Cart{}, malformedCart(entry, "bad quantity", err)
		}
		items = append(items, domain.CartItem{
			SKU:      parts[0],
			Name:     parts[1],
			Price:    price,
			Quantity: qty,
		})
	}
	cart, err := domain.NewCart(items)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("parse cart: %w", err)
	}
	return cart, nil
}

func malformedCart(entry, reason string, cause error) error {
	return apperrors.Wrap(apperrors.CodeCartSeedMalformed, fmt.Sprintf("cart entry %q: %s", entry, reason), cause)
}

func newPricingClient(cfg Config) (*pricing.Client, error) {
	return pricing.NewClient(
		pricing.ResolveBaseURL(cfg.APIBaseURL, cfg.Env),
		pricing.WithTimeout(cfg.PricingTimeout),
	)
}

// Run starts the checkout web service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCheckout, func(ctx context.Context) error {
		cart, err := ParseCart(cfg.Cart)
		if err != nil {
			return err
		}
		client, err := newPricingClient(cfg)
		if err != nil {
			return fmt.Errorf("init pricing client: %w", err)
		}
		log.Printf("pricing api: base_url=%s timeout=%s", client.BaseURL(), client.Timeout())

		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:            cfg.HTTPAddr,
			Cart:                cart,
			Pricing:             client,
			SessionIdleTTL:      cfg.SessionIdleTTL,
			MaxSessions:         cfg.MaxSessions,
			MetricsEnabled:      cfg.MetricsEnabled,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init checkout server: %w", err)
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve checkout: %w", err)
		}
		return nil
	})
}
