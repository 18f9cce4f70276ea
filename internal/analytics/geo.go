package analytics

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Locator resolves an IP address to an ISO 3166-1 alpha-2 country code.
// An empty result means the country could not be determined.
type Locator interface {
	CountryCode(ctx context.Context, ip string) string
}

type geoCacheEntry struct {
	country string
	expires time.Time
}

// IPLocator resolves countries through the ipwho.is HTTP API with an
// in-memory TTL cache. Lookups are best-effort: any failure yields an empty
// country code rather than an error.
type IPLocator struct {
	client *http.Client
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]geoCacheEntry
}

// NewIPLocator creates a locator with the given cache TTL.
func NewIPLocator(ttl time.Duration) *IPLocator {
	return &IPLocator{
		client: &http.Client{Timeout: 2 * time.Second},
		ttl:    ttl,
		cache:  make(map[string]geoCacheEntry),
	}
}

func (g *IPLocator) CountryCode(ctx context.Context, ip string) string {
	if ip == "" || isPrivateIP(ip) {
		return ""
	}

	now := time.Now()

	g.mu.Lock()
	if entry, ok := g.cache[ip]; ok && now.Before(entry.expires) {
		g.mu.Unlock()

		return entry.country
	}
	g.mu.Unlock()

	country := g.lookup(ctx, ip)

	g.mu.Lock()
	g.cache[ip] = geoCacheEntry{country: country, expires: now.Add(g.ttl)}
	g.mu.Unlock()

	return country
}

func (g *IPLocator) lookup(ctx context.Context, ip string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ipwho.is/"+ip, nil)
	if err != nil {
		return ""
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var out struct {
		Success     bool   `json:"success"`
		CountryCode string `json:"country_code"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || !out.Success {
		return ""
	}

	country := strings.ToUpper(strings.TrimSpace(out.CountryCode))
	if len(country) != 2 {
		return ""
	}

	return country
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}

	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}
