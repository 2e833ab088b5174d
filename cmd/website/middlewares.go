package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/respond"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/viewmodels"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"golang.org/x/time/rate"
)

const (
	rateLimitCleanupInterval = 5 * time.Minute
	rateLimitClientTTL       = 10 * time.Minute
)

func newAdminAccessMiddleware(sessionService sessions.Session[*models.AdminSession], excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err          error
				adminSession *models.AdminSession
			)

			path := r.URL.Path

			/*
			 * If this path is excluded, keep going.
			 */
			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if adminSession, err = sessionService.Get(r); err != nil || adminSession == nil {
				respond.Error(w, respond.NewError(http.StatusUnauthorized, "You must be logged in to do that"))
				return
			}

			next.ServeHTTP(w, r.WithContext(viewmodels.WithAdmin(r.Context(), adminSession)))
		})
	}
}

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

/*
newRateLimitMiddleware gives every client IP its own token bucket that refills
perMinute tokens a minute. Idle clients are forgotten until ctx is done.
*/
func newRateLimitMiddleware(ctx context.Context, perMinute, burst int, trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = map[string]*rateLimitClient{}
	)

	if perMinute <= 0 {
		perMinute = 60
	}

	if burst <= 0 {
		burst = 1
	}

	go func() {
		ticker := time.NewTicker(rateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > rateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustedProxies)

			mu.Lock()
			client, found := clients[ip]

			if !found {
				client = &rateLimitClient{
					limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
				}

				clients[ip] = client
			}

			client.lastSeen = time.Now()
			allowed := client.limiter.Allow()
			mu.Unlock()

			if !allowed {
				respond.Error(w, respond.NewError(http.StatusTooManyRequests, "Too many requests. Please wait a moment and try again."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

/*
clientIP identifies the caller. Proxy headers are only believed when the
connection itself comes from one of trustedProxies.
*/
func clientIP(r *http.Request, trustedProxies []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)

	if err != nil {
		host = r.RemoteAddr
	}

	if !isTrustedProxy(host, trustedProxies) {
		return host
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	return host
}

func isTrustedProxy(host string, trustedProxies []netip.Prefix) bool {
	addr, err := netip.ParseAddr(host)

	if err != nil {
		return false
	}

	addr = addr.Unmap()

	for _, prefix := range trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

/*
parseTrustedProxies reads a comma separated list of IP addresses and CIDR
ranges. A bare address trusts only itself.
*/
func parseTrustedProxies(value string) ([]netip.Prefix, error) {
	result := []netip.Prefix{}

	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)

		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)

			if err != nil {
				return nil, fmt.Errorf("error parsing trusted proxy range '%s': %w", entry, err)
			}

			result = append(result, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)

		if err != nil {
			return nil, fmt.Errorf("error parsing trusted proxy address '%s': %w", entry, err)
		}

		addr = addr.Unmap()
		result = append(result, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return result, nil
}
