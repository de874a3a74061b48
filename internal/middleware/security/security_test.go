package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP_Extract(t *testing.T) {
	c := NewClientIP()

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct public", "203.0.113.7:5000", "", "", "203.0.113.7"},
		{"spoofed header from public peer", "203.0.113.7:5000", "1.2.3.4", "", "203.0.113.7"},
		{"forwarded by local proxy", "127.0.0.1:5000", "198.51.100.2, 10.0.0.1", "", "198.51.100.2"},
		{"real ip from private proxy", "10.1.2.3:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header falls back", "10.1.2.3:80", "not-an-ip", "", "10.1.2.3"},
		{"client-supplied hops are ignored", "127.0.0.1:5000", "1.2.3.4, 198.51.100.2", "", "198.51.100.2"},
		{"chain of trusted proxies", "127.0.0.1:5000", "6.6.6.6, 198.51.100.2, 10.0.0.5, 192.168.1.1", "", "198.51.100.2"},
		{"only trusted hops", "127.0.0.1:5000", "10.0.0.7, 10.0.0.1", "", "10.0.0.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := c.Extract(r); got != tt.want {
				t.Fatalf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP_SpoofedHopsShareOneIdentity(t *testing.T) {
	c := NewClientIP()
	seen := map[string]bool{}
	for _, fake := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/expenses", nil)
		r.RemoteAddr = "127.0.0.1:5000"
		r.Header.Set("X-Forwarded-For", fake+", 198.51.100.2")
		seen[c.Extract(r)] = true
	}
	if len(seen) != 1 || !seen["198.51.100.2"] {
		t.Fatalf("rotating forged hops changed the client identity: %v", seen)
	}
}

func TestClientIP_AddTrustedProxy(t *testing.T) {
	c := NewClientIP()
	if err := c.AddTrustedProxy("nope"); err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
	if err := c.AddTrustedProxy("203.0.113.0/24"); err != nil {
		t.Fatalf("AddTrustedProxy: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:5000"
	r.Header.Set("X-Forwarded-For", "198.51.100.2")
	if got := c.Extract(r); got != "198.51.100.2" {
		t.Fatalf("Extract = %q", got)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/totals", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("missing headers: %v", rr.Header())
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/totals", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") != "max-age=31536000; includeSubDomains" {
		t.Fatalf("HSTS = %q", rr.Header().Get("Strict-Transport-Security"))
	}
}
