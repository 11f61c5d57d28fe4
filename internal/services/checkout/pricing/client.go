// Package pricing is the HTTP client for the remote pricing api that quotes
// financing terms and creates orders.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/louisbranch/credix-checkout/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// LocalBaseURL is the pricing api of a local development stack.
	LocalBaseURL = "http://localhost:8000"
	// ProductionBaseURL is the hosted pricing api.
	ProductionBaseURL = "https://api.credix.pixelbreeders.com"

	// TermsPath quotes terms for a buyer and cart.
	TermsPath = "/buyer/terms/"
	// OrderPath creates an order for a selected term.
	OrderPath = "/order/create/"

	// IdempotencyHeader carries a per-attempt key on order creation.
	IdempotencyHeader = "Idempotency-Key"

	tracerName   = "github.com/louisbranch/credix-checkout/internal/services/checkout/pricing"
	maxBodyBytes = 1 << 20
)

// ResolveBaseURL returns override when set, LocalBaseURL when env is "local"
// and ProductionBaseURL otherwise.
func ResolveBaseURL(override, env string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return LocalBaseURL
	}
	return ProductionBaseURL
}

// Client calls the pricing api. It implements checkout.Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	timeout    time.Duration
	newKey     func() string
}

var _ checkout.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request, replacing timeouts.PricingRequest. Zero
// disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithIdempotencyKeys replaces the idempotency key generator.
func WithIdempotencyKeys(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.newKey = next
		}
	}
}

// NewClient builds a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pricing base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("pricing base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("pricing base url %q has no host", baseURL)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		tracer:     otel.Tracer(tracerName),
		timeout:    timeouts.PricingRequest,
		newKey:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the api root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request bound; zero means unbounded.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// RequestTerms posts the quote request and returns the offered terms in
// response order.
func (c *Client) RequestTerms(ctx context.Context, data checkout.FormData) ([]checkout.Term, error) {
	ctx, span := c.tracer.Start(ctx, "pricing.RequestTerms")
	defer span.End()
	span.SetAttributes(attribute.Int("checkout.cart_lines", len(data.Cart)))

	var resp termsResponse
	if err := c.post(ctx, span, TermsPath, NewQuoteRequest(data), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Terms == nil {
		return nil, fail(span, fmt.Errorf("%w: terms missing from response", ErrUnexpectedResponse))
	}
	terms := make([]checkout.Term, 0, len(*resp.Terms))
	for _, days := range *resp.Terms {
		terms = append(terms, checkout.Term(days))
	}
	span.SetAttributes(attribute.Int("checkout.terms_offered", len(terms)))
	return terms, nil
}

// ConfirmOrder posts the order request and returns the created order id.
// Every call carries a fresh Idempotency-Key header.
func (c *Client) ConfirmOrder(ctx context.Context, data checkout.FormData) (checkout.OrderID, error) {
	ctx, span := c.tracer.Start(ctx, "pricing.ConfirmOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("checkout.term", int(data.Term)))

	headers := http.Header{}
	headers.Set(IdempotencyHeader, c.newKey())

	var resp orderResponse
	if err := c.post(ctx, span, OrderPath, NewOrderRequest(data), headers, &resp); err != nil {
		return "", err
	}
	orderID := strings.TrimSpace(resp.OrderID)
	if orderID == "" {
		return "", fail(span, fmt.Errorf("%w: order id missing from response", ErrUnexpectedResponse))
	}
	return checkout.OrderID(orderID), nil
}

func (c *Client) post(ctx context.Context, span trace.Span, path string, body any, headers http.Header, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail(span, fmt.Errorf("encode %s request: %w", path, err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fail(span, fmt.Errorf("build %s request: %w", path, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(span, fmt.Errorf("%w: post %s: %w", ErrUnavailable, path, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(span, fmt.Errorf("%w: read %s response: %w", ErrUnavailable, path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(span, decodeFailure(resp.StatusCode, raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(span, fmt.Errorf("%w: decode %s response: %v", ErrUnexpectedResponse, path, err))
	}
	return nil
}

// decodeFailure maps a non-2xx body to an APIError when it carries a message.
func decodeFailure(status int, raw []byte) error {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if message := strings.TrimSpace(body.Message); message != "" {
			return &APIError{Status: status, Message: message}
		}
	}
	return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}

// AsAPIError reports whether err carries a buyer-facing pricing api message.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
