package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postFrom(target string, header string, value string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	return req
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    *http.Request
		policy SchemePolicy
		want   bool
	}{
		{name: "origin match", req: postFrom("http://shop.test/checkout/fields", "Origin", "http://shop.test"), want: true},
		{name: "referer match", req: postFrom("http://shop.test/checkout/fields", "Referer", "http://shop.test/checkout/"), want: true},
		{name: "explicit default port", req: postFrom("http://shop.test/checkout/fields", "Origin", "http://shop.test:80"), want: true},
		{name: "other host", req: postFrom("http://shop.test/checkout/fields", "Origin", "http://evil.test"), want: false},
		{name: "other port", req: postFrom("http://shop.test:8080/checkout/fields", "Origin", "http://shop.test:9090"), want: false},
		{name: "scheme mismatch", req: postFrom("https://shop.test/checkout/fields", "Origin", "http://shop.test"), want: false},
		{name: "no proof", req: postFrom("http://shop.test/checkout/fields", "", ""), want: false},
		{
			name: "untrusted forwarded proto ignored",
			req: func() *http.Request {
				req := postFrom("https://shop.test/checkout/fields", "Origin", "http://shop.test")
				req.Header.Set("X-Forwarded-Proto", "http")
				return req
			}(),
			want: false,
		},
		{
			name: "trusted forwarded proto used",
			req: func() *http.Request {
				req := postFrom("https://shop.test/checkout/fields", "Origin", "http://shop.test")
				req.Header.Set("X-Forwarded-Proto", "http")
				return req
			}(),
			policy: SchemePolicy{TrustForwardedProto: true},
			want:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.policy.SameOrigin(tc.req); got != tc.want {
				t.Fatalf("SameOrigin() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if (SchemePolicy{}).IsHTTPS(plain) {
		t.Fatal("plain request reported https")
	}
	withTLS := httptest.NewRequest(http.MethodGet, "/", nil)
	withTLS.TLS = &tls.ConnectionState{}
	if !(SchemePolicy{}).IsHTTPS(withTLS) {
		t.Fatal("tls request not reported https")
	}
	forwarded := httptest.NewRequest(http.MethodGet, "/", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	if (SchemePolicy{}).IsHTTPS(forwarded) {
		t.Fatal("untrusted forwarded proto honored")
	}
	if !(SchemePolicy{TrustForwardedProto: true}).IsHTTPS(forwarded) {
		t.Fatal("trusted forwarded proto ignored")
	}
	if (SchemePolicy{}).IsHTTPS(nil) {
		t.Fatal("nil request reported https")
	}
}
