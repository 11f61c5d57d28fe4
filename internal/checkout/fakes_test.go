package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeGateway struct {
	mu sync.Mutex

	terms    []Term
	termsErr error
	orderID  OrderID
	orderErr error

	// block, when set, holds each call until it is closed.
	block   chan struct{}
	started chan struct{}

	quoteRequests []FormData
	orders        []FormData
}

func (g *fakeGateway) RequestTerms(ctx context.Context, data FormData) ([]Term, error) {
	g.mu.Lock()
	g.quoteRequests = append(g.quoteRequests, data)
	g.mu.Unlock()
	g.wait(ctx)
	return g.terms, g.termsErr
}

func (g *fakeGateway) ConfirmOrder(ctx context.Context, data FormData) (OrderID, error) {
	g.mu.Lock()
	g.orders = append(g.orders, data)
	g.mu.Unlock()
	g.wait(ctx)
	return g.orderID, g.orderErr
}

func (g *fakeGateway) wait(ctx context.Context) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block == nil {
		return
	}
	select {
	case <-g.block:
	case <-ctx.Done():
	}
}

func (g *fakeGateway) calls() (quotes, orders int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.quoteRequests), len(g.orders)
}

// panickingGateway panics on every call.
type panickingGateway struct{}

func (panickingGateway) RequestTerms(context.Context, FormData) ([]Term, error) {
	panic("pricing exploded")
}

func (panickingGateway) ConfirmOrder(context.Context, FormData) (OrderID, error) {
	panic("pricing exploded")
}

// recoverPanic runs fn and reports whether it panicked.
func recoverPanic(fn func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	fn()
	return false
}

func validForm() FormData {
	return FormData{
		CNPJ:      "12.345.678/0001-90",
		Email:     "buyer@shop.com.br",
		Phone:     "+5511912345678",
		FirstName: "Ana",
		LastName:  "Souza",
	}
}

func seededCart(t *testing.T) Cart {
	t.Helper()
	cart, err := NewCart([]CartItem{
		{SKU: "oweuriek", Name: "Product A", Price: decimal.NewFromInt(100), Quantity: 1},
		{SKU: "eepheeje", Name: "Product B", Price: decimal.NewFromInt(150), Quantity: 2},
	})
	if err != nil {
		t.Fatalf("NewCart() error = %v", err)
	}
	return cart
}

func fillForm(t *testing.T, m *Machine, data FormData) {
	t.Helper()
	for _, field := range Fields() {
		if err := m.UpdateField(field, data.Get(field)); err != nil {
			t.Fatalf("UpdateField(%s) error = %v", field, err)
		}
	}
}

func quotedMachine(t *testing.T, terms ...Term) (*Machine, *fakeGateway) {
	t.Helper()
	m := NewMachine(seededCart(t))
	fillForm(t, m, validForm())
	gw := &fakeGateway{terms: terms, orderID: "order-1"}
	if err := m.Submit(context.Background(), gw); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return m, gw
}
