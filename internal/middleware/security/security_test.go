package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, name := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if rr.Header().Get(name) == "" {
			t.Errorf("missing header %s", name)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set on plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Strict-Transport-Security"); !strings.Contains(got, "includeSubDomains") {
		t.Errorf("HSTS = %q", got)
	}
}

func TestStaticAssetMiddleware(t *testing.T) {
	h := StaticAssetMiddleware(3600)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestDetector_Inspect(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		name   string
		method string
		target string
		agent  string
		want   string
	}{
		{"normal page", http.MethodGet, "/zipcode?zip=19120", "Mozilla/5.0", ""},
		{"path traversal", http.MethodGet, "/static/../../etc/passwd", "", ReasonPath},
		{"git config scan", http.MethodGet, "/.git/config", "", ReasonPath},
		{"sql in query", http.MethodGet, "/api/v1/addresses?day=1%20union%20select", "", ReasonQuery},
		{"scanner agent", http.MethodGet, "/", "sqlmap/1.7", ReasonUserAgent},
		{"trace method", "TRACE", "/", "", ReasonMethod},
		{"long url", http.MethodGet, "/?q=" + strings.Repeat("a", maxURLLength), "", ReasonLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.agent != "" {
				req.Header.Set("User-Agent", tt.agent)
			}
			if got := d.Inspect(req); got != tt.want {
				t.Errorf("Inspect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetector_MiddlewareServesFlaggedRequests(t *testing.T) {
	d := NewDetector(nil)
	served := false
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { served = true }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin", nil))
	if !served {
		t.Fatal("flagged request was not served")
	}
	if got := d.GetMetrics().SuspiciousRequests; got != 1 {
		t.Fatalf("SuspiciousRequests = %d, want 1", got)
	}
}
