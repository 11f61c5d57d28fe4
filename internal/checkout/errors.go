package checkout

import apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"

var (
	// ErrInvalidForm indicates at least one field failed validation.
	ErrInvalidForm = apperrors.New(apperrors.CodeCheckoutInvalidForm, "checkout form has invalid fields")
	// ErrFormLocked indicates a field edit while terms are displayed.
	ErrFormLocked = apperrors.New(apperrors.CodeCheckoutFormLocked, "checkout form is locked while quoted")
	// ErrNotQuoted indicates a term operation before a quote exists.
	ErrNotQuoted = apperrors.New(apperrors.CodeCheckoutNotQuoted, "checkout has no quote")
	// ErrTermNotOffered indicates a selection outside the quoted terms.
	ErrTermNotOffered = apperrors.New(apperrors.CodeCheckoutTermNotOffered, "term is not offered by the current quote")
	// ErrNoTermSelected indicates a confirmation without an active term.
	ErrNoTermSelected = apperrors.New(apperrors.CodeCheckoutNoTermSelected, "no term selected")
	// ErrRequestInFlight indicates a mutation while a remote call is outstanding.
	ErrRequestInFlight = apperrors.New(apperrors.CodeCheckoutRequestInFlight, "checkout request already in flight")
	// ErrNoTermsOffered indicates a successful quote that carried no terms.
	ErrNoTermsOffered = apperrors.New(apperrors.CodeCheckoutNoTermsOffered, "quote returned no terms")
	// ErrUnknownField indicates an update for a field the form does not have.
	ErrUnknownField = apperrors.New(apperrors.CodeCheckoutUnknownField, "unknown checkout field")
)
