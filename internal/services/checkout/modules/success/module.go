// Package success serves the order confirmation page.
package success

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/pagerender"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/weberror"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/templates"
)

// Module provides the confirmation route.
type Module struct{}

// New returns a success module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "success" }

// Mount wires the confirmation handler.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{deps: deps})
	return module.Mount{Prefix: routepath.SuccessPrefix, Handler: mux}, nil
}

type handlers struct {
	deps module.Dependencies
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.SuccessPattern, h.handleSuccess)
	mux.HandleFunc(http.MethodGet+" "+routepath.SuccessPrefix+"{orderID}/{rest...}", h.handleNotFound)
	mux.HandleFunc(http.MethodGet+" "+routepath.SuccessPrefix+"{$}", h.handleNotFound)
}

func (h handlers) handleSuccess(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	if strings.TrimSpace(orderID) == "" {
		h.handleNotFound(w, r)
		return
	}
	err := pagerender.WriteModulePage(w, r, h.deps, func(loc templates.Localizer) pagerender.ModulePage {
		return pagerender.ModulePage{
			Title:    templates.SuccessPageTitle(loc),
			Fragment: templates.SuccessPage(orderID, loc),
		}
	})
	if err != nil {
		log.Printf("success page render failed: order_id=%s err=%v", orderID, err)
	}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound)
}
