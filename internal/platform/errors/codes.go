// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Cart errors
	CodeCartItemInvalid   Code = "CART_ITEM_INVALID"
	CodeCartDuplicateSKU  Code = "CART_DUPLICATE_SKU"
	CodeCartSeedMalformed Code = "CART_SEED_MALFORMED"

	// Checkout state errors
	CodeCheckoutInvalidForm     Code = "CHECKOUT_INVALID_FORM"
	CodeCheckoutFormLocked      Code = "CHECKOUT_FORM_LOCKED"
	CodeCheckoutNotQuoted       Code = "CHECKOUT_NOT_QUOTED"
	CodeCheckoutTermNotOffered  Code = "CHECKOUT_TERM_NOT_OFFERED"
	CodeCheckoutNoTermSelected  Code = "CHECKOUT_NO_TERM_SELECTED"
	CodeCheckoutRequestInFlight Code = "CHECKOUT_REQUEST_IN_FLIGHT"
	CodeCheckoutNoTermsOffered  Code = "CHECKOUT_NO_TERMS_OFFERED"
	CodeCheckoutUnknownField    Code = "CHECKOUT_UNKNOWN_FIELD"

	// Pricing API errors
	CodePricingRejected           Code = "PRICING_REJECTED"
	CodePricingUnavailable        Code = "PRICING_UNAVAILABLE"
	CodePricingUnexpectedResponse Code = "PRICING_UNEXPECTED_RESPONSE"

	// Session errors
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeCartItemInvalid,
		CodeCartDuplicateSKU,
		CodeCartSeedMalformed,
		CodeCheckoutInvalidForm,
		CodeCheckoutUnknownField,
		CodeCheckoutTermNotOffered,
		CodePricingRejected:
		return http.StatusBadRequest

	// Conflict - state doesn't allow operation
	case CodeCheckoutFormLocked,
		CodeCheckoutNotQuoted,
		CodeCheckoutNoTermSelected,
		CodeCheckoutRequestInFlight,
		CodeCheckoutNoTermsOffered:
		return http.StatusConflict

	// NotFound - resource doesn't exist
	case CodeSessionNotFound:
		return http.StatusNotFound

	// Upstream failures
	case CodePricingUnavailable:
		return http.StatusServiceUnavailable
	case CodePricingUnexpectedResponse:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
