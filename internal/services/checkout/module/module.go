// Package module defines the contracts checkout feature modules mount through.
package module

import (
	"net/http"

	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/metrics"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/requestmeta"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/session"
)

// Dependencies carries the shared collaborators handed to every module.
type Dependencies struct {
	Sessions     *session.Store
	Pricing      checkout.Gateway
	Metrics      *metrics.Checkout
	SchemePolicy requestmeta.SchemePolicy
}

// Mount is a module's root prefix and handler.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module is a feature slice mounted under one prefix.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
