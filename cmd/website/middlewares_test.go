package main

import (
	"context"
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/viewmodels"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newRateLimitMiddleware(ctx, 1, 2, nil)(http.HandlerFunc(okHandler))

	send := func(remoteAddr string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		r.RemoteAddr = remoteAddr

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"))
}

func TestClientIP(t *testing.T) {
	trusted, err := parseTrustedProxies("10.0.0.0/8, 127.0.0.1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{name: "remote address", remoteAddr: "192.168.1.10:443", expected: "192.168.1.10"},
		{name: "real ip header from trusted proxy", headers: map[string]string{"X-Real-IP": "203.0.113.7"}, remoteAddr: "10.0.0.1:80", expected: "203.0.113.7"},
		{name: "first forwarded address from trusted proxy", headers: map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2"}, remoteAddr: "10.0.0.1:80", expected: "198.51.100.4"},
		{name: "single trusted address", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, remoteAddr: "127.0.0.1:9000", expected: "203.0.113.9"},
		{name: "real ip header from untrusted caller is ignored", headers: map[string]string{"X-Real-IP": "203.0.113.7"}, remoteAddr: "192.168.1.10:443", expected: "192.168.1.10"},
		{name: "forwarded header from untrusted caller is ignored", headers: map[string]string{"X-Forwarded-For": "198.51.100.4"}, remoteAddr: "192.168.1.10:443", expected: "192.168.1.10"},
		{name: "trusted proxy without headers", remoteAddr: "10.1.2.3:80", expected: "10.1.2.3"},
		{name: "remote address without port", remoteAddr: "pipe", expected: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr

			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, clientIP(r, trusted))
		})
	}
}

func TestClientIPWithoutTrustedProxies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:80"
	r.Header.Set("X-Real-IP", "203.0.113.7")
	r.Header.Set("X-Forwarded-For", "198.51.100.4")

	assert.Equal(t, "10.0.0.1", clientIP(r, nil))
}

func TestRateLimitIgnoresRotatedHeadersFromUntrustedCallers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trusted, err := parseTrustedProxies("10.0.0.0/8")
	require.NoError(t, err)

	handler := newRateLimitMiddleware(ctx, 1, 1, trusted)(http.HandlerFunc(okHandler))

	send := func(remoteAddr, forwardedFor string) int {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = remoteAddr
		r.Header.Set("X-Forwarded-For", forwardedFor)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.168.1.10:5000", "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.10:5001", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.10:5002", "203.0.113.3"))

	// Behind the proxy each forwarded client gets its own bucket.
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000", "203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5001", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002", "203.0.113.2"))
}

func TestParseTrustedProxies(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  []netip.Prefix
		expectErr bool
	}{
		{name: "empty", value: "", expected: []netip.Prefix{}},
		{name: "address and range", value: " 127.0.0.1 , 10.0.0.0/8", expected: []netip.Prefix{netip.MustParsePrefix("127.0.0.1/32"), netip.MustParsePrefix("10.0.0.0/8")}},
		{name: "range is masked", value: "172.16.5.4/12", expected: []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}},
		{name: "ipv6 address", value: "::1", expected: []netip.Prefix{netip.MustParsePrefix("::1/128")}},
		{name: "bad address", value: "proxy.local", expectErr: true},
		{name: "bad range", value: "10.0.0.0/99", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseTrustedProxies(tt.value)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestAdminAccessMiddleware(t *testing.T) {
	gob.Register(&models.AdminSession{})

	sessionService := sessions.NewSessionWrapper[*models.AdminSession](sessions.NewCookieStore("test-cookie-secret"), "albumstudioadmin", "admin")
	loggedInAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	var seen *models.AdminSession

	handler := newAdminAccessMiddleware(sessionService, []string{"/admin/login"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = viewmodels.GetAdminFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("excluded path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logged in", func(t *testing.T) {
		loginRequest := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		loginRecorder := httptest.NewRecorder()

		require.NoError(t, sessionService.Set(loginRequest, &models.AdminSession{LoggedInAt: loggedInAt}))
		require.NoError(t, sessionService.Save(loginRecorder, loginRequest))

		r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

		for _, cookie := range loginRecorder.Result().Cookies() {
			r.AddCookie(cookie)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.True(t, loggedInAt.Equal(seen.LoggedInAt))
	})
}
