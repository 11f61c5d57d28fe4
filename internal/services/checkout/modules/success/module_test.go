package success

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
)

func TestSuccessRoutes(t *testing.T) {
	t.Parallel()

	mount, err := New().Mount(module.Dependencies{})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.SuccessPrefix {
		t.Fatalf("Prefix = %q, want %q", mount.Prefix, routepath.SuccessPrefix)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "order id", method: http.MethodGet, path: routepath.Success("9f1c-ab"), wantStatus: http.StatusOK, wantBody: "Your credix order ID: 9f1c-ab"},
		{name: "escaped order id", method: http.MethodGet, path: "/success/%3Cb%3E", wantStatus: http.StatusOK, wantBody: "&lt;b&gt;"},
		{name: "missing order id", method: http.MethodGet, path: routepath.SuccessPrefix, wantStatus: http.StatusNotFound, wantBody: `id="app-error-state"`},
		{name: "nested path", method: http.MethodGet, path: routepath.Success("a") + "/b", wantStatus: http.StatusNotFound},
		{name: "post rejected", method: http.MethodPost, path: routepath.Success("a"), wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			mount.Handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantBody != "" && !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("body missing %q: %s", tc.wantBody, rr.Body.String())
			}
		})
	}
}
