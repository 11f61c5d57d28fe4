package pricing

import (
	"encoding/json"

	"github.com/louisbranch/credix-checkout/internal/checkout"
)

// CartLine is one cart entry on the wire.
type CartLine struct {
	SKU      string      `json:"sku"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// QuoteRequest is the body of POST /buyer/terms/.
type QuoteRequest struct {
	CNPJ      string     `json:"cnpj"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Cart      []CartLine `json:"cart"`
}

// OrderRequest is the body of POST /order/create/: the quote fields plus the
// selected term.
type OrderRequest struct {
	QuoteRequest
	Term int `json:"term"`
}

// NewQuoteRequest maps the form and its cart snapshot onto the wire shape.
// Field values are sent as entered.
func NewQuoteRequest(data checkout.FormData) QuoteRequest {
	lines := make([]CartLine, 0, len(data.Cart))
	for _, item := range data.Cart {
		lines = append(lines, CartLine{
			SKU:      item.SKU,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}
	return QuoteRequest{
		CNPJ:      data.CNPJ,
		Email:     data.Email,
		Phone:     data.Phone,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Cart:      lines,
	}
}

// NewOrderRequest maps the form, cart snapshot and term onto the wire shape.
func NewOrderRequest(data checkout.FormData) OrderRequest {
	return OrderRequest{QuoteRequest: NewQuoteRequest(data), Term: int(data.Term)}
}

type termsResponse struct {
	Terms *[]int `json:"terms"`
}

type orderResponse struct {
	OrderID string `json:"credix_order_id"`
}

type errorResponse struct {
	Message string `json:"message"`
}
