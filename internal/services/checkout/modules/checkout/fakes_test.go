package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	domain "github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/metrics"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/sessioncookie"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/session"
	"github.com/shopspring/decimal"
)

type fakeGateway struct {
	mu       sync.Mutex
	terms    []domain.Term
	termsErr error
	orderID  domain.OrderID
	orderErr error
	quotes   []domain.FormData
	orders   []domain.FormData
}

func (g *fakeGateway) RequestTerms(_ context.Context, data domain.FormData) ([]domain.Term, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quotes = append(g.quotes, data)
	if g.termsErr != nil {
		return nil, g.termsErr
	}
	return append([]domain.Term(nil), g.terms...), nil
}

func (g *fakeGateway) ConfirmOrder(_ context.Context, data domain.FormData) (domain.OrderID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = append(g.orders, data)
	if g.orderErr != nil {
		return "", g.orderErr
	}
	return g.orderID, nil
}

func (g *fakeGateway) quoteCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.quotes)
}

func (g *fakeGateway) lastOrder() domain.FormData {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.orders) == 0 {
		return domain.FormData{}
	}
	return g.orders[len(g.orders)-1]
}

type testEnv struct {
	handler http.Handler
	store   *session.Store
	gateway *fakeGateway
	metrics *metrics.Checkout
}

func newTestEnv(t *testing.T, gateway *fakeGateway) testEnv {
	t.Helper()
	cart, err := domain.NewCart([]domain.CartItem{
		{SKU: "oweuriek", Name: "Product A", Price: decimal.NewFromInt(100), Quantity: 1},
		{SKU: "eepheeje", Name: "Product B", Price: decimal.NewFromInt(150), Quantity: 2},
	})
	if err != nil {
		t.Fatalf("NewCart() error = %v", err)
	}
	store := session.NewStore(cart, session.WithIDGenerator(func() string { return "sess-1" }))
	m := metrics.New()
	mount, err := New().Mount(module.Dependencies{Sessions: store, Pricing: gateway, Metrics: m})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return testEnv{handler: mount.Handler, store: store, gateway: gateway, metrics: m}
}

// open loads the checkout page and returns the issued session cookie.
func (e testEnv) open(t *testing.T) *http.Cookie {
	t.Helper()
	rr := e.do(httptest.NewRequest(http.MethodGet, "/checkout/", nil), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /checkout/ status = %d, want %d", rr.Code, http.StatusOK)
	}
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			return cookie
		}
	}
	t.Fatalf("GET /checkout/ did not set %s", sessioncookie.Name)
	return nil
}

func (e testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies)
}

func (e testEnv) page(cookies ...*http.Cookie) string {
	return e.do(httptest.NewRequest(http.MethodGet, "/checkout/", nil), cookies).Body.String()
}

func validFormValues() url.Values {
	return url.Values{
		"cnpj":      {"12.345.678/0001-90"},
		"email":     {"buyer@shop.com.br"},
		"phone":     {"+5511912345678"},
		"firstName": {"Ana"},
		"lastName":  {"Souza"},
	}
}
