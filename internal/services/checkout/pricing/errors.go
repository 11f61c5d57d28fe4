package pricing

import (
	"fmt"

	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
)

var (
	// ErrRejected matches every APIError.
	ErrRejected = apperrors.New(apperrors.CodePricingRejected, "pricing api rejected the request")
	// ErrUnavailable indicates the pricing api could not be reached.
	ErrUnavailable = apperrors.New(apperrors.CodePricingUnavailable, "pricing api unavailable")
	// ErrUnexpectedResponse indicates a response the client could not interpret.
	ErrUnexpectedResponse = apperrors.New(apperrors.CodePricingUnexpectedResponse, "unexpected pricing api response")
)

// APIError is a non-2xx response that carried a readable message. The
// message is meant to be shown to the buyer as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pricing api status %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrRejected) and apperrors.CodeOf see the
// rejection code.
func (e *APIError) Unwrap() error {
	return ErrRejected
}

// PublicMessage returns the text the pricing api meant for the buyer.
func (e *APIError) PublicMessage() string {
	return e.Message
}
