package checkout

import (
	"errors"
	"net/http"

	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
)

// Module provides the checkout page and its form actions.
type Module struct{}

// New returns a checkout module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "checkout" }

// Mount wires checkout route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Sessions == nil {
		return module.Mount{}, errors.New("session store is required")
	}
	if deps.Pricing == nil {
		return module.Mount{}, errors.New("pricing gateway is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps), deps))
	return module.Mount{Prefix: routepath.Checkout, Handler: mux}, nil
}
