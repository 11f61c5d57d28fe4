// Package metrics records checkout outcomes for Prometheus.
package metrics

import (
	"net/http"
	"time"

	domainerrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeUnexpected  = "unexpected"
	OutcomeError       = "error"
)

// Checkout holds the checkout collectors on a private registry. A nil
// *Checkout records nothing.
type Checkout struct {
	registry *prometheus.Registry
	quotes   *prometheus.CounterVec
	orders   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New registers the checkout collectors plus Go and process collectors.
func New() *Checkout {
	registry := prometheus.NewRegistry()
	m := &Checkout{
		registry: registry,
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credix",
			Subsystem: "checkout",
			Name:      "quotes_total",
			Help:      "Quote submissions by outcome.",
		}, []string{"outcome"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credix",
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Order confirmations by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "credix",
			Subsystem: "checkout",
			Name:      "pricing_request_seconds",
			Help:      "Duration of checkout operations that reached the pricing api.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	registry.MustRegister(
		m.quotes,
		m.orders,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuote counts one submission. remote reports whether the pricing api
// was called, in which case elapsed is recorded too.
func (m *Checkout) ObserveQuote(err error, remote bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(Outcome(err)).Inc()
	if remote {
		m.latency.WithLabelValues("quote").Observe(elapsed.Seconds())
	}
}

// ObserveOrder counts one confirmation attempt.
func (m *Checkout) ObserveOrder(err error, remote bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(Outcome(err)).Inc()
	if remote {
		m.latency.WithLabelValues("order").Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Checkout) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome maps err onto an outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeCheckoutInvalidForm, domainerrors.CodeCheckoutUnknownField, domainerrors.CodeCheckoutTermNotOffered:
		return OutcomeInvalid
	case domainerrors.CodeCheckoutFormLocked,
		domainerrors.CodeCheckoutNotQuoted,
		domainerrors.CodeCheckoutNoTermSelected,
		domainerrors.CodeCheckoutRequestInFlight,
		domainerrors.CodeCheckoutNoTermsOffered:
		return OutcomeConflict
	case domainerrors.CodePricingRejected:
		return OutcomeRejected
	case domainerrors.CodePricingUnavailable:
		return OutcomeUnavailable
	case domainerrors.CodePricingUnexpectedResponse:
		return OutcomeUnexpected
	default:
		return OutcomeError
	}
}
