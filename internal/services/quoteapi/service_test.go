package quoteapi

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ids := 0
	return NewService(DefaultSeed(),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			ids++
			return "order-" + strings.Repeat("x", ids)
		}),
	)
}

func approvedQuote() QuoteRequest {
	return QuoteRequest{
		CNPJ:      "12.345.678/0001-90",
		Email:     "buyer@example.com",
		Phone:     "+5511987654321",
		FirstName: "Ana",
		LastName:  "Souza",
		Cart: []LineRequest{
			{SKU: "oweuriek", Quantity: 2},
			{SKU: "eepheeje", Quantity: 1},
		},
	}
}

func intPtr(v int) *int { return &v }

func TestAvailableTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		max  int
		want []int
	}{
		{max: 5, want: []int{5}},
		{max: 7, want: []int{7}},
		{max: 20, want: []int{7, 14, 20}},
		{max: 30, want: []int{7, 14, 30}},
		{max: 45, want: []int{7, 14, 30, 45}},
	}
	for _, tc := range tests {
		if got := AvailableTerms(tc.max); !slices.Equal(got, tc.want) {
			t.Fatalf("AvailableTerms(%d) = %v, want %v", tc.max, got, tc.want)
		}
	}
}

func TestEvaluateApprovedBuyer(t *testing.T) {
	t.Parallel()

	quote, err := newTestService(t).Evaluate(approvedQuote())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got := quote.Subtotal.String(); got != "350" {
		t.Fatalf("subtotal = %q, want %q", got, "350")
	}
	if got := quote.Tax.String(); got != "35" {
		t.Fatalf("tax = %q, want %q", got, "35")
	}
	if !slices.Equal(quote.Terms, []int{7, 14, 30, 45}) {
		t.Fatalf("terms = %v, want [7 14 30 45]", quote.Terms)
	}
	if len(quote.Lines) != 2 || quote.Lines[0].Name != "Product A" {
		t.Fatalf("lines = %+v, want priced catalog lines", quote.Lines)
	}
}

func TestEvaluateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*QuoteRequest)
		want   string
	}{
		{name: "unknown buyer", mutate: func(r *QuoteRequest) { r.CNPJ = "00000000000000" }, want: MsgBuyerNotApproved},
		{name: "unapproved buyer", mutate: func(r *QuoteRequest) { r.CNPJ = "11111111000111" }, want: MsgBuyerNotApproved},
		{name: "unknown product", mutate: func(r *QuoteRequest) { r.Cart[0].SKU = "missing" }, want: MsgProductNotFound},
		{name: "zero quantity", mutate: func(r *QuoteRequest) { r.Cart[1].Quantity = 0 }, want: MsgInvalidRequest},
		{name: "insufficient credit", mutate: func(r *QuoteRequest) { r.CNPJ = "98765432000110" }, want: MsgInsufficientCredit},
		{name: "no seller terms", mutate: func(r *QuoteRequest) { r.CNPJ = "22222222000122" }, want: MsgNoSellerTerms},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := approvedQuote()
			tc.mutate(&req)
			_, err := newTestService(t).Evaluate(req)
			rejection, ok := AsRejection(err)
			if !ok {
				t.Fatalf("Evaluate() error = %v, want rejection", err)
			}
			if rejection.Message != tc.want {
				t.Fatalf("message = %q, want %q", rejection.Message, tc.want)
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	order, err := svc.CreateOrder(OrderRequest{QuoteRequest: approvedQuote(), Term: intPtr(30)})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.ID != "order-x" {
		t.Fatalf("order id = %q, want %q", order.ID, "order-x")
	}
	if order.BuyerTaxID != "12345678000190" {
		t.Fatalf("buyer = %q, want %q", order.BuyerTaxID, "12345678000190")
	}
	if got := order.MaturityDate.Format("2006-01-02"); got != "2026-03-31" {
		t.Fatalf("maturity = %q, want %q", got, "2026-03-31")
	}
	stored, ok := svc.Order(order.ID)
	if !ok || stored.Term != 30 {
		t.Fatalf("stored order = %+v, %v", stored, ok)
	}
}

func TestCreateOrderTermRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		term *int
		want string
	}{
		{name: "missing term", term: nil, want: MsgNoTermSelected},
		{name: "term not offered", term: intPtr(60), want: MsgTermNotAvailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestService(t).CreateOrder(OrderRequest{QuoteRequest: approvedQuote(), Term: tc.term})
			rejection, ok := AsRejection(err)
			if !ok {
				t.Fatalf("CreateOrder() error = %v, want rejection", err)
			}
			if rejection.Message != tc.want {
				t.Fatalf("message = %q, want %q", rejection.Message, tc.want)
			}
		})
	}
}

func TestCreateOrderIdempotencyKeyReplays(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	req := OrderRequest{QuoteRequest: approvedQuote(), Term: intPtr(14), IdempotencyKey: "key-1"}
	first, err := svc.CreateOrder(req)
	if err != nil {
		t.Fatalf("first CreateOrder() error = %v", err)
	}
	second, err := svc.CreateOrder(req)
	if err != nil {
		t.Fatalf("second CreateOrder() error = %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replayed id = %q, want %q", second.ID, first.ID)
	}

	req.IdempotencyKey = "key-2"
	third, err := svc.CreateOrder(req)
	if err != nil {
		t.Fatalf("third CreateOrder() error = %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("new key reused order id %q", third.ID)
	}
}

func TestRejectionErrorMessage(t *testing.T) {
	t.Parallel()

	err := reject(MsgProductNotFound)
	if err.Error() != MsgProductNotFound {
		t.Fatalf("Error() = %q, want %q", err.Error(), MsgProductNotFound)
	}
	if _, ok := AsRejection(errors.New("boom")); ok {
		t.Fatal("plain error reported as rejection")
	}
	if got := httpx.ErrorStatus(fmt.Errorf("evaluate: %w", err)); got != http.StatusBadRequest {
		t.Fatalf("ErrorStatus(rejection) = %d, want %d", got, http.StatusBadRequest)
	}
}
