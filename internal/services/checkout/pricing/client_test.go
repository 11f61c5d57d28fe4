package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/credix-checkout/internal/checkout"
	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	"github.com/shopspring/decimal"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func sampleForm() checkout.FormData {
	return checkout.FormData{
		CNPJ:      "12.345.678/0001-90",
		Email:     "buyer@shop.com.br",
		Phone:     "+5511912345678",
		FirstName: "Ana",
		LastName:  "Souza",
		Cart: []checkout.CartItem{
			{SKU: "oweuriek", Name: "Product A", Price: decimal.NewFromInt(100), Quantity: 1},
			{SKU: "eepheeje", Name: "Product B", Price: decimal.RequireFromString("150.50"), Quantity: 2},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/", opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		override string
		env      string
		want     string
	}{
		{name: "override wins", override: " http://pricing.test ", env: "local", want: "http://pricing.test"},
		{name: "local", env: "local", want: LocalBaseURL},
		{name: "local any case", env: "LOCAL", want: LocalBaseURL},
		{name: "production", env: "production", want: ProductionBaseURL},
		{name: "empty env", want: ProductionBaseURL},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveBaseURL(tc.override, tc.env); got != tc.want {
				t.Fatalf("ResolveBaseURL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "localhost:8000", "ftp://pricing.test", "http://"} {
		if _, err := NewClient(raw); err == nil {
			t.Fatalf("NewClient(%q) expected error", raw)
		}
	}
}

func TestRequestTermsPostsQuote(t *testing.T) {
	t.Parallel()

	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != TermsPath {
			t.Errorf("request = %s %s, want POST %s", r.Method, r.URL.Path, TermsPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if key := r.Header.Get(IdempotencyHeader); key != "" {
			t.Errorf("quote carried idempotency key %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"status":"success","terms":[7,14,30,45],"order_taxes":40.0}`)
	})

	terms, err := client.RequestTerms(context.Background(), sampleForm())
	if err != nil {
		t.Fatalf("RequestTerms() error = %v", err)
	}
	want := []checkout.Term{7, 14, 30, 45}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for idx := range want {
		if terms[idx] != want[idx] {
			t.Fatalf("terms = %v, want %v", terms, want)
		}
	}

	if got["cnpj"] != "12.345.678/0001-90" || got["firstName"] != "Ana" || got["lastName"] != "Souza" {
		t.Fatalf("body = %v", got)
	}
	if _, ok := got["term"]; ok {
		t.Fatalf("quote body carries term: %v", got)
	}
	cart, ok := got["cart"].([]any)
	if !ok || len(cart) != 2 {
		t.Fatalf("cart = %v", got["cart"])
	}
	line := cart[1].(map[string]any)
	if line["sku"] != "eepheeje" || line["price"] != 150.5 || line["quantity"] != float64(2) {
		t.Fatalf("cart line = %v", line)
	}
}

func TestRequestTermsEmptyListIsNotAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"terms":[]}`)
	})
	terms, err := client.RequestTerms(context.Background(), sampleForm())
	if err != nil {
		t.Fatalf("RequestTerms() error = %v", err)
	}
	if len(terms) != 0 {
		t.Fatalf("terms = %v, want empty", terms)
	}
}

func TestRequestTermsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantAPI     *APIError
		wantCode    apperrors.Code
		wantMatches error
	}{
		{
			name:     "rejected with message",
			status:   http.StatusBadRequest,
			body:     `{"status":"error","message":"Buyer not approved"}`,
			wantAPI:  &APIError{Status: http.StatusBadRequest, Message: "Buyer not approved"},
			wantCode: apperrors.CodePricingRejected,
		},
		{
			name:        "error without message",
			status:      http.StatusInternalServerError,
			body:        `<html>boom</html>`,
			wantCode:    apperrors.CodePricingUnexpectedResponse,
			wantMatches: ErrUnexpectedResponse,
		},
		{
			name:        "blank message",
			status:      http.StatusBadRequest,
			body:        `{"message":"  "}`,
			wantCode:    apperrors.CodePricingUnexpectedResponse,
			wantMatches: ErrUnexpectedResponse,
		},
		{
			name:        "undecodable success",
			status:      http.StatusOK,
			body:        `not json`,
			wantCode:    apperrors.CodePricingUnexpectedResponse,
			wantMatches: ErrUnexpectedResponse,
		},
		{
			name:        "terms missing",
			status:      http.StatusOK,
			body:        `{"status":"success"}`,
			wantCode:    apperrors.CodePricingUnexpectedResponse,
			wantMatches: ErrUnexpectedResponse,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := client.RequestTerms(context.Background(), sampleForm())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.CodeOf(err); got != tc.wantCode {
				t.Fatalf("CodeOf(err) = %q, want %q (err = %v)", got, tc.wantCode, err)
			}
			if tc.wantMatches != nil && !errors.Is(err, tc.wantMatches) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tc.wantMatches)
			}
			apiErr, ok := AsAPIError(err)
			if tc.wantAPI == nil {
				if ok {
					t.Fatalf("unexpected APIError %v", apiErr)
				}
				return
			}
			if !ok {
				t.Fatalf("AsAPIError(%v) ok = false", err)
			}
			if *apiErr != *tc.wantAPI {
				t.Fatalf("APIError = %+v, want %+v", *apiErr, *tc.wantAPI)
			}
			if !errors.Is(err, ErrRejected) {
				t.Fatal("APIError does not match ErrRejected")
			}
		})
	}
}

func TestRequestTermsTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_, err = client.RequestTerms(context.Background(), sampleForm())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("RequestTerms() error = %v, want ErrUnavailable", err)
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodePricingUnavailable {
		t.Fatalf("CodeOf() = %q, want %q", code, apperrors.CodePricingUnavailable)
	}
	if !strings.Contains(err.Error(), "post /buyer/terms/") {
		t.Fatalf("RequestTerms() error = %q, want request path", err.Error())
	}
}

func TestRequestTermsHonorsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := client.RequestTerms(context.Background(), sampleForm())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RequestTerms() error = %v, want deadline exceeded", err)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("RequestTerms() error = %v, want ErrUnavailable", err)
	}
}

func TestConfirmOrder(t *testing.T) {
	t.Parallel()

	var gotTerm float64
	var gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != OrderPath {
			t.Errorf("path = %q, want %q", r.URL.Path, OrderPath)
		}
		gotKey = r.Header.Get(IdempotencyHeader)
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotTerm, _ = body["term"].(float64)
		_, _ = io.WriteString(w, `{"status":"success","credix_order_id":"ord_123"}`)
	}, WithIdempotencyKeys(func() string { return "key-1" }))

	data := sampleForm()
	data.Term = 30
	id, err := client.ConfirmOrder(context.Background(), data)
	if err != nil {
		t.Fatalf("ConfirmOrder() error = %v", err)
	}
	if id != "ord_123" {
		t.Fatalf("order id = %q, want %q", id, "ord_123")
	}
	if gotTerm != 30 {
		t.Fatalf("term = %v, want 30", gotTerm)
	}
	if gotKey != "key-1" {
		t.Fatalf("%s = %q, want %q", IdempotencyHeader, gotKey, "key-1")
	}
}

func TestConfirmOrderMissingID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success"}`)
	})
	_, err := client.ConfirmOrder(context.Background(), sampleForm())
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Fatalf("ConfirmOrder() error = %v, want ErrUnexpectedResponse", err)
	}
}

func TestConfirmOrderDefaultIdempotencyKeyIsUUID(t *testing.T) {
	t.Parallel()

	keys := make(chan string, 2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get(IdempotencyHeader)
		_, _ = io.WriteString(w, `{"credix_order_id":"ord"}`)
	})
	for range 2 {
		if _, err := client.ConfirmOrder(context.Background(), sampleForm()); err != nil {
			t.Fatalf("ConfirmOrder() error = %v", err)
		}
	}
	first, second := <-keys, <-keys
	if len(first) != 36 || first == second {
		t.Fatalf("keys = %q, %q, want distinct uuids", first, second)
	}
}

func TestClientRecordsSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Insufficient credit"}`)
	}, WithTracerProvider(provider))

	_, _ = client.RequestTerms(context.Background(), sampleForm())

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "pricing.RequestTerms" {
		t.Fatalf("span name = %q", span.Name())
	}
	if span.Status().Description == "" {
		t.Fatal("span status description is empty")
	}
	found := false
	for _, attr := range span.Attributes() {
		if attr.Key == "http.response.status_code" && attr.Value.AsInt64() == http.StatusBadRequest {
			found = true
		}
	}
	if !found {
		t.Fatalf("status code attribute missing: %v", span.Attributes())
	}
}
