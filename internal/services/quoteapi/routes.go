package quoteapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
	"github.com/shopspring/decimal"
)

const (
	welcomeMessage = "Welcome to the Credix case API!"
	maxBodyBytes   = 1 << 20
)

type lineBody struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type quoteBody struct {
	CNPJ      string     `json:"cnpj"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Cart      []lineBody `json:"cart"`
}

type orderBody struct {
	quoteBody
	Term *int `json:"term"`
}

func (b quoteBody) request() QuoteRequest {
	lines := make([]LineRequest, 0, len(b.Cart))
	for _, line := range b.Cart {
		lines = append(lines, LineRequest{SKU: line.SKU, Quantity: line.Quantity})
	}
	return QuoteRequest{
		CNPJ:      b.CNPJ,
		Email:     b.Email,
		Phone:     b.Phone,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Cart:      lines,
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type termsResponse struct {
	Status        string          `json:"status"`
	Terms         []int           `json:"terms"`
	OrderSubtotal decimal.Decimal `json:"order_subtotal"`
	OrderTaxes    decimal.Decimal `json:"order_taxes"`
}

type orderResponse struct {
	Status        string `json:"status"`
	CredixOrderID string `json:"credix_order_id"`
	MaturityDate  string `json:"maturity_date"`
}

type buyerResponse struct {
	Status               string `json:"status"`
	TaxID                string `json:"tax_id"`
	Approved             bool   `json:"approved"`
	AvailableCreditCents int64  `json:"available_credit_cents"`
}

type handlers struct {
	service *Service
	logger  *log.Logger
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	mux.HandleFunc(http.MethodGet+" /{$}", h.handleWelcome)
	mux.HandleFunc(http.MethodGet+" /health", h.handleHealth)
	mux.HandleFunc(http.MethodGet+" /buyer/{cnpj}", h.handleBuyer)
	mux.HandleFunc(http.MethodPost+" /buyer/terms/", h.handleTerms)
	mux.HandleFunc(http.MethodGet+" /buyer/terms/", httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" /order/create/", h.handleCreateOrder)
	mux.HandleFunc(http.MethodGet+" /order/create/", httpx.MethodNotAllowed(http.MethodPost))
}

func (h handlers) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: welcomeMessage})
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h handlers) handleBuyer(w http.ResponseWriter, r *http.Request) {
	buyer, ok := h.service.Buyer(r.PathValue("cnpj"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "Buyer not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, buyerResponse{
		Status:               "success",
		TaxID:                buyer.TaxID,
		Approved:             buyer.Approved,
		AvailableCreditCents: buyer.AvailableCreditCents,
	})
}

func (h handlers) handleTerms(w http.ResponseWriter, r *http.Request) {
	var body quoteBody
	if err := decodeBody(r, &body); err != nil {
		h.writeRejection(w, reject(MsgInvalidRequest))
		return
	}
	quote, err := h.service.Evaluate(body.request())
	if err != nil {
		h.writeRejection(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, termsResponse{
		Status:        "success",
		Terms:         quote.Terms,
		OrderSubtotal: quote.Subtotal,
		OrderTaxes:    quote.Tax,
	})
}

func (h handlers) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body orderBody
	if err := decodeBody(r, &body); err != nil {
		h.writeRejection(w, reject(MsgInvalidRequest))
		return
	}
	order, err := h.service.CreateOrder(OrderRequest{
		QuoteRequest:   body.request(),
		Term:           body.Term,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.writeRejection(w, err)
		return
	}
	h.logger.Printf("order created id=%s buyer=%s term=%d", order.ID, order.BuyerTaxID, order.Term)
	h.writeJSON(w, http.StatusOK, orderResponse{
		Status:        "success",
		CredixOrderID: order.ID,
		MaturityDate:  order.MaturityDate.Format("2006-01-02"),
	})
}

func decodeBody(r *http.Request, out any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(out)
}

// writeRejection answers business rule failures with their message and
// hides everything else behind a generic 500.
func (h handlers) writeRejection(w http.ResponseWriter, err error) {
	status := httpx.ErrorStatus(err)
	if rejection, ok := AsRejection(err); ok {
		h.writeJSON(w, status, statusResponse{Status: "error", Message: rejection.Message})
		return
	}
	h.logger.Printf("quote api error err=%v", err)
	h.writeJSON(w, status, statusResponse{Status: "error", Message: "Internal server error"})
}

func (h handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		h.logger.Printf("write response err=%v", strings.TrimSpace(err.Error()))
	}
}
