// Package quoteapi is an in-memory pricing api for local development. It
// quotes financing terms from a seeded buyer directory and records orders.
package quoteapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/shopspring/decimal"
)

// Rejection messages returned to callers verbatim.
const (
	MsgBuyerNotApproved   = "Buyer not approved"
	MsgProductNotFound    = "Product not found"
	MsgInsufficientCredit = "Insufficient credit"
	MsgNoSellerTerms      = "Seller doesn't have terms for this buyer"
	MsgNoTermSelected     = "No term selected"
	MsgTermNotAvailable   = "Term not available"
	MsgInvalidRequest     = "Invalid request body"
)

// standardTerms are offered whenever the seller's maximum allows them.
var standardTerms = []int{7, 14, 30}

var taxRate = decimal.RequireFromString("0.1")

// RejectionError is a business rule failure reported to the caller.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// HTTPStatus reports rejections as client errors.
func (e *RejectionError) HTTPStatus() int {
	return http.StatusBadRequest
}

func reject(message string) error {
	return &RejectionError{Message: message}
}

// AsRejection unwraps a RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// LineRequest is one cart line as sent by the checkout.
type LineRequest struct {
	SKU      string
	Quantity int
}

// QuoteRequest is a buyer and cart to price.
type QuoteRequest struct {
	CNPJ      string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Cart      []LineRequest
}

// OrderRequest is a quote plus the chosen term. A nil Term means none was
// sent.
type OrderRequest struct {
	QuoteRequest
	Term *int
	// IdempotencyKey, when set, makes retries return the first order.
	IdempotencyKey string
}

// OrderLine is a priced cart line.
type OrderLine struct {
	SKU      string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// Quote is the priced evaluation of a QuoteRequest.
type Quote struct {
	Terms    []int
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Lines    []OrderLine
}

// Total returns subtotal plus tax.
func (q Quote) Total() decimal.Decimal {
	return q.Subtotal.Add(q.Tax)
}

// Order is a created order.
type Order struct {
	ID           string
	BuyerTaxID   string
	SellerTaxID  string
	Term         int
	MaturityDate time.Time
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Lines        []OrderLine
	Email        string
	Phone        string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// Service evaluates quotes and creates orders. It is safe for concurrent use.
type Service struct {
	sellerTaxID string
	products    map[string]Product
	buyers      map[string]Buyer
	now         func() time.Time
	newID       func() string

	mu          sync.Mutex
	orders      map[string]Order
	idempotency map[string]string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid order id generator.
func WithIDGenerator(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}

// NewService builds a service over seed.
func NewService(seed Seed, opts ...Option) *Service {
	s := &Service{
		sellerTaxID: seed.SellerTaxID,
		products:    make(map[string]Product, len(seed.Products)),
		buyers:      make(map[string]Buyer, len(seed.Buyers)),
		now:         time.Now,
		newID:       uuid.NewString,
		orders:      make(map[string]Order),
		idempotency: make(map[string]string),
	}
	for _, p := range seed.Products {
		s.products[p.SKU] = p
	}
	for _, b := range seed.Buyers {
		s.buyers[b.TaxID] = b
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Buyer looks up a buyer by CNPJ in any formatting.
func (s *Service) Buyer(cnpj string) (Buyer, bool) {
	b, ok := s.buyers[checkout.DigitsOnly(cnpj)]
	return b, ok
}

// Evaluate prices req and derives the terms the seller offers the buyer.
func (s *Service) Evaluate(req QuoteRequest) (Quote, error) {
	buyer, ok := s.Buyer(req.CNPJ)
	if !ok || !buyer.Approved {
		return Quote{}, reject(MsgBuyerNotApproved)
	}

	quote := Quote{Subtotal: decimal.Zero}
	for _, line := range req.Cart {
		product, ok := s.products[strings.TrimSpace(line.SKU)]
		if !ok {
			return Quote{}, reject(MsgProductNotFound)
		}
		if line.Quantity <= 0 {
			return Quote{}, reject(MsgInvalidRequest)
		}
		quote.Lines = append(quote.Lines, OrderLine{
			SKU:      product.SKU,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: line.Quantity,
		})
		quote.Subtotal = quote.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	quote.Tax = quote.Subtotal.Mul(taxRate)

	totalCents := quote.Total().Shift(2)
	if decimal.NewFromInt(buyer.AvailableCreditCents).LessThan(totalCents) {
		return Quote{}, reject(MsgInsufficientCredit)
	}

	seller, ok := s.sellerConfig(buyer)
	if !ok {
		return Quote{}, reject(MsgNoSellerTerms)
	}
	quote.Terms = AvailableTerms(seller.MaxPaymentTermDays)
	return quote, nil
}

func (s *Service) sellerConfig(buyer Buyer) (SellerConfig, bool) {
	for _, cfg := range buyer.SellerConfigs {
		if cfg.TaxID == s.sellerTaxID {
			return cfg, true
		}
	}
	return SellerConfig{}, false
}

// AvailableTerms returns maxDays plus every standard term it allows, sorted
// ascending without duplicates.
func AvailableTerms(maxDays int) []int {
	terms := []int{maxDays}
	for _, term := range standardTerms {
		if maxDays >= term {
			terms = append(terms, term)
		}
	}
	slices.Sort(terms)
	return slices.Compact(terms)
}

// CreateOrder re-evaluates req, checks the chosen term and records the order.
func (s *Service) CreateOrder(req OrderRequest) (Order, error) {
	quote, err := s.Evaluate(req.QuoteRequest)
	if err != nil {
		return Order{}, err
	}
	if req.Term == nil {
		return Order{}, reject(MsgNoTermSelected)
	}
	if !slices.Contains(quote.Terms, *req.Term) {
		return Order{}, reject(MsgTermNotAvailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if id, ok := s.idempotency[key]; ok {
			return s.orders[id], nil
		}
	}
	now := s.now().UTC()
	order := Order{
		ID:           s.newID(),
		BuyerTaxID:   checkout.DigitsOnly(req.CNPJ),
		SellerTaxID:  s.sellerTaxID,
		Term:         *req.Term,
		MaturityDate: now.AddDate(0, 0, *req.Term),
		Subtotal:     quote.Subtotal,
		Tax:          quote.Tax,
		Lines:        quote.Lines,
		Email:        req.Email,
		Phone:        req.Phone,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
	}
	s.orders[order.ID] = order
	if key != "" {
		s.idempotency[key] = order.ID
	}
	return order, nil
}

// Order returns a recorded order by id.
func (s *Service) Order(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[strings.TrimSpace(id)]
	return order, ok
}
