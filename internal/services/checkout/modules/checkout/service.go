package checkout

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/louisbranch/credix-checkout/internal/checkout"
	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/metrics"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/session"
)

type service struct {
	sessions *session.Store
	pricing  domain.Gateway
	metrics  *metrics.Checkout
	now      func() time.Time
}

func newService(deps module.Dependencies) service {
	return service{
		sessions: deps.Sessions,
		pricing:  deps.Pricing,
		metrics:  deps.Metrics,
		now:      time.Now,
	}
}

// open returns the machine for sessionID, creating one when it is unknown.
func (s service) open(sessionID string) (string, *domain.Machine, bool) {
	return s.sessions.GetOrCreate(sessionID)
}

// lookup returns the live machine for sessionID or session.ErrNotFound.
func (s service) lookup(sessionID string) (*domain.Machine, error) {
	machine, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, session.ErrNotFound
	}
	return machine, nil
}

// submit applies the posted fields and requests a quote.
func (s service) submit(ctx context.Context, machine *domain.Machine, values url.Values) error {
	for _, field := range domain.Fields() {
		if _, ok := values[string(field)]; !ok {
			continue
		}
		if err := machine.UpdateField(field, values.Get(string(field))); err != nil {
			s.metrics.ObserveQuote(err, false, 0)
			return err
		}
	}
	start := s.now()
	err := machine.Submit(ctx, s.pricing)
	s.metrics.ObserveQuote(err, reachedPricing(err), s.now().Sub(start))
	return err
}

func (s service) selectTerm(machine *domain.Machine, raw string) error {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return apperrors.WithMetadata(apperrors.CodeCheckoutTermNotOffered, domain.ErrTermNotOffered.Message, map[string]string{"Term": strings.TrimSpace(raw)})
	}
	return machine.SelectTerm(domain.Term(days))
}

func (s service) edit(machine *domain.Machine) error {
	return machine.Edit()
}

// confirm places the order and drops the session once it succeeds.
func (s service) confirm(ctx context.Context, sessionID string, machine *domain.Machine) (domain.OrderID, error) {
	start := s.now()
	orderID, err := machine.ConfirmOrder(ctx, s.pricing)
	s.metrics.ObserveOrder(err, reachedPricing(err), s.now().Sub(start))
	if err != nil {
		return "", err
	}
	s.sessions.Delete(sessionID)
	return orderID, nil
}

// reachedPricing reports whether err came after a pricing api round trip.
func reachedPricing(err error) bool {
	if err == nil {
		return true
	}
	for _, local := range []error{
		domain.ErrInvalidForm,
		domain.ErrFormLocked,
		domain.ErrNotQuoted,
		domain.ErrNoTermSelected,
		domain.ErrRequestInFlight,
		domain.ErrUnknownField,
	} {
		if errors.Is(err, local) {
			return false
		}
	}
	return true
}
