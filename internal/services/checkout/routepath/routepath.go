// Package routepath stores canonical HTTP paths for checkout modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                = "/"
	Health              = "/health"
	Metrics             = "/metrics"
	StaticPrefix        = "/static/"
	Checkout            = "/checkout/"
	CheckoutFields      = "/checkout/fields"
	CheckoutEdit        = "/checkout/edit"
	CheckoutTermsPrefix = "/checkout/terms/"
	CheckoutTermPattern = CheckoutTermsPrefix + "{term}"
	CheckoutConfirm     = "/checkout/confirm"
	SuccessPrefix       = "/success/"
	SuccessPattern      = SuccessPrefix + "{orderID}"
)

// CheckoutTerm returns the route selecting a term of days.
func CheckoutTerm(days int) string {
	return CheckoutTermsPrefix + strconv.Itoa(days)
}

// Success returns the confirmation route for orderID.
func Success(orderID string) string {
	return SuccessPrefix + escapeSegment(orderID)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
