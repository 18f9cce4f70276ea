package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkdeck/internal/ratelimit"
)

// RegisterRoutes registers the management API and public redirect surface
// with per-endpoint rate limit configuration. Write operations carry strict
// limits; the redirect path is relaxed for high-traffic reads.
func RegisterRoutes(api huma.API, links *LinkHandler, redirect *RedirectHandler) {
	writeLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 10},
			{Window: time.Hour, Max: 100},
			{Window: 24 * time.Hour, Max: 500},
		},
	}

	readLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 300},
		},
	}

	redirectLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 1000},
		},
	}

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create link",
		Description: "Creates a short link with an optional custom slug, password, expiry, and click cap.",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{ratelimit.MetadataKey: writeLimits},
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		Method:   http.MethodGet,
		Path:     "/api/links",
		Summary:  "List links",
		Tags:     []string{"Links"},
		Metadata: map[string]any{ratelimit.MetadataKey: readLimits},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		Method:   http.MethodGet,
		Path:     "/api/links/{slug}",
		Summary:  "Get link",
		Tags:     []string{"Links"},
		Metadata: map[string]any{ratelimit.MetadataKey: readLimits},
	}, links.GetLink)

	huma.Register(api, huma.Operation{
		Method:   http.MethodPatch,
		Path:     "/api/links/{slug}",
		Summary:  "Update link",
		Tags:     []string{"Links"},
		Metadata: map[string]any{ratelimit.MetadataKey: writeLimits},
	}, links.UpdateLink)

	huma.Register(api, huma.Operation{
		Method:        http.MethodDelete,
		Path:          "/api/links/{slug}",
		Summary:       "Delete link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
		Metadata:      map[string]any{ratelimit.MetadataKey: writeLimits},
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		Method:   http.MethodGet,
		Path:     "/api/links/{slug}/stats",
		Summary:  "Link statistics",
		Tags:     []string{"Links"},
		Metadata: map[string]any{ratelimit.MetadataKey: readLimits},
	}, links.LinkStats)

	huma.Register(api, huma.Operation{
		Method:   http.MethodGet,
		Path:     "/api/links/{slug}/qr",
		Summary:  "Link QR code",
		Tags:     []string{"Links"},
		Metadata: map[string]any{ratelimit.MetadataKey: readLimits},
	}, links.LinkQR)

	huma.Register(api, huma.Operation{
		Method:        http.MethodGet,
		Path:          "/{slug}",
		Summary:       "Resolve short link",
		Description:   "Redirects to the destination URL when the link's policy allows it.",
		Tags:          []string{"Redirect"},
		DefaultStatus: http.StatusMovedPermanently,
		Metadata:      map[string]any{ratelimit.MetadataKey: redirectLimits},
	}, redirect.Redirect)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{slug}/preview",
		Summary:     "Preview short link",
		Description: "Returns display metadata without consuming a click or requiring a password.",
		Tags:        []string{"Redirect"},
		Metadata:    map[string]any{ratelimit.MetadataKey: redirectLimits},
	}, redirect.Preview)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/{slug}/verify-password",
		Summary:     "Verify link password",
		Description: "Checks a password against a protected link without redirecting.",
		Tags:        []string{"Redirect"},
		Metadata:    map[string]any{ratelimit.MetadataKey: redirectLimits},
	}, redirect.VerifyPassword)
}
