package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avenard/clubregistry/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// ============================================================================
// APIKeyAuth Tests
// ============================================================================

func TestAPIKeyAuth_Disabled(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: false}
	handler := APIKeyAuth(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth is disabled", rec.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	handler := APIKeyAuth(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	handler := APIKeyAuth(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"first", "second"}}
	handler := APIKeyAuth(cfg)(okHandler())

	for _, key := range []string{"first", "second"} {
		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("key %q: status = %d, want 200", key, rec.Code)
		}
	}
}

func TestAPIKeyAuth_EnabledWithNoKeys(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true}
	handler := APIKeyAuth(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Error("request passed with no keys configured, want rejection")
	}
}

// ============================================================================
// TrustedRealIP Tests
// ============================================================================

func requestIP(t *testing.T, trusted []string, remoteAddr string, headers map[string]string) string {
	t.Helper()

	var seen string
	handler := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestTrustedRealIP_UntrustedPeerKeepsRemoteAddr(t *testing.T) {
	got := requestIP(t, []string{"10.0.0.0/8"}, "203.0.113.7:4242", map[string]string{
		"X-Real-IP": "198.51.100.1",
	})
	if got != "203.0.113.7:4242" {
		t.Errorf("RemoteAddr = %q, spoofed header must be ignored", got)
	}
}

func TestTrustedRealIP_TrustedProxyHonoredHeaders(t *testing.T) {
	got := requestIP(t, []string{"10.0.0.0/8"}, "10.1.2.3:4242", map[string]string{
		"X-Real-IP": "198.51.100.1",
	})
	if got != "198.51.100.1" {
		t.Errorf("RemoteAddr = %q, want header value from trusted proxy", got)
	}
}

func TestTrustedRealIP_ForwardedForFirstHop(t *testing.T) {
	got := requestIP(t, []string{"10.0.0.0/8"}, "10.1.2.3:4242", map[string]string{
		"X-Forwarded-For": "198.51.100.1, 10.1.2.3",
	})
	if got != "198.51.100.1" {
		t.Errorf("RemoteAddr = %q, want first X-Forwarded-For hop", got)
	}
}

func TestTrustedRealIP_SingleIPTrustEntry(t *testing.T) {
	got := requestIP(t, []string{"10.1.2.3"}, "10.1.2.3:4242", map[string]string{
		"X-Real-IP": "198.51.100.1",
	})
	if got != "198.51.100.1" {
		t.Errorf("RemoteAddr = %q, bare IP trust entries must work", got)
	}
}

func TestTrustedRealIP_InvalidHeaderValueIgnored(t *testing.T) {
	got := requestIP(t, []string{"10.0.0.0/8"}, "10.1.2.3:4242", map[string]string{
		"X-Real-IP": "not-an-ip",
	})
	if got != "10.1.2.3:4242" {
		t.Errorf("RemoteAddr = %q, invalid header value must be rejected", got)
	}
}
