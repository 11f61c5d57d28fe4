package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainerrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindConflict, want: http.StatusConflict},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindUnknown, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusUsesDomainCodes(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("select: %w", domainerrors.New(domainerrors.CodeCheckoutTermNotOffered, "nope"))
	if got := HTTPStatus(err); got != http.StatusBadRequest {
		t.Fatalf("HTTPStatus(domain) = %d, want %d", got, http.StatusBadRequest)
	}
	inFlight := domainerrors.New(domainerrors.CodeCheckoutRequestInFlight, "busy")
	if got := HTTPStatus(inFlight); got != http.StatusConflict {
		t.Fatalf("HTTPStatus(in flight) = %d, want %d", got, http.StatusConflict)
	}
}

func TestHTTPStatusDefaults(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindNotFound}
	if got := err.Error(); got != string(KindNotFound) {
		t.Fatalf("Error() = %q, want %q", got, string(KindNotFound))
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", EK(KindInvalidInput, " error.form_parse ", "bad form"))
	if got := LocalizationKey(err); got != "error.form_parse" {
		t.Fatalf("LocalizationKey() = %q, want %q", got, "error.form_parse")
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q, want empty", got)
	}
}
