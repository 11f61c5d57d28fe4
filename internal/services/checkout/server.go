// Package checkout hosts the browser-facing checkout service.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	domain "github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/louisbranch/credix-checkout/internal/platform/timeouts"
	checkoutapp "github.com/louisbranch/credix-checkout/internal/services/checkout/app"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/modules"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/metrics"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/requestmeta"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/session"
	checkoutstatic "github.com/louisbranch/credix-checkout/internal/services/checkout/static"
	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
	"github.com/louisbranch/credix-checkout/internal/services/shared/observability"
)

// Config defines startup inputs for the checkout service.
type Config struct {
	HTTPAddr string
	Cart     domain.Cart
	Pricing  domain.Gateway
	// SessionIdleTTL defaults to session.DefaultIdleTTL.
	SessionIdleTTL time.Duration
	// MaxSessions defaults to session.DefaultMaxSessions.
	MaxSessions         int
	MetricsEnabled      bool
	TrustForwardedProto bool
	Logger              *log.Logger
}

// Server hosts the checkout HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	sessions   *session.Store
}

type runtime struct {
	handler  http.Handler
	sessions *session.Store
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	rt, err := newRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return rt.handler, nil
}

func newRuntime(cfg Config) (runtime, error) {
	if cfg.Pricing == nil {
		return runtime{}, errors.New("pricing gateway is required")
	}
	sessions := session.NewStore(cfg.Cart,
		session.WithIdleTTL(cfg.SessionIdleTTL),
		session.WithMaxSessions(cfg.MaxSessions),
	)
	var checkoutMetrics *metrics.Checkout
	if cfg.MetricsEnabled {
		checkoutMetrics = metrics.New()
	}
	deps := module.Dependencies{
		Sessions:     sessions,
		Pricing:      cfg.Pricing,
		Metrics:      checkoutMetrics,
		SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
	}
	h, err := checkoutapp.Compose(checkoutapp.Config{
		Dependencies: deps,
		Modules:      modules.Default(),
	})
	if err != nil {
		return runtime{}, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(checkoutstatic.FS))))
	if checkoutMetrics != nil {
		rootMux.Handle(http.MethodGet+" "+routepath.Metrics, checkoutMetrics.Handler())
	}
	rootMux.Handle("/", h)

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return runtime{
		handler: httpx.Chain(rootMux,
			httpx.RecoverPanic(),
			httpx.RequestID(),
			observability.RequestLogger(logger),
		),
		sessions: sessions,
	}, nil
}

// NewServer validates config and constructs a checkout server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose checkout handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           rt.handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		sessions: rt.sessions,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
// Idle sessions are swept for as long as it runs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("checkout server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, timeouts.SessionSweep)

	log.Printf("checkout listening: addr=%s", s.httpAddr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown checkout http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve checkout http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
