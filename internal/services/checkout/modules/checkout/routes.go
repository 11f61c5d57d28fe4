package checkout

import (
	"net/http"

	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Checkout+"{$}", h.handleIndex)

	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutFields, h.handleSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutFields, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutEdit, h.handleEdit)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutEdit, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutTermPattern, h.handleSelectTerm)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutTermPattern, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.CheckoutConfirm, h.handleConfirm)
	mux.HandleFunc(http.MethodGet+" "+routepath.CheckoutConfirm, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodGet+" "+routepath.Checkout+"{rest...}", h.handleNotFound)
}
