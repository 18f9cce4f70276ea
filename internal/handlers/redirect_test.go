package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/handlers"
	"github.com/serroba/linkdeck/internal/link"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDestination = "https://example.com/landing"

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

func newRedirectHandler(repo link.Repository) *handlers.RedirectHandler {
	return handlers.NewRedirectHandler(repo, noopPublish[analytics.LinkVisitedEvent](), zap.NewNop())
}

func seedLink(t *testing.T, m *store.MemoryStore, mutate func(*link.Link)) *link.Link {
	t.Helper()

	now := time.Now().UTC()
	l := &link.Link{
		ID:          uuid.New(),
		UserID:      "owner",
		Slug:        "abc123",
		OriginalURL: testDestination,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if mutate != nil {
		mutate(l)
	}

	require.NoError(t, m.Create(context.Background(), l))

	return l
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)

	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.GetStatus())
}

func TestRedirect(t *testing.T) {
	ctx := context.Background()

	t.Run("redirects and records a click", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, nil)
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status)
		assert.Equal(t, testDestination, resp.Headers.Location)

		got, err := memStore.GetBySlug(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ClicksCount)
		assert.Equal(t, 1, memStore.ClickCount())
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		handler := newRedirectHandler(store.NewMemoryStore())

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "missing"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("reserved segments are 404 even when a row exists", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) { l.Slug = "api" })
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "api"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("returns 410 for deactivated link", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) { l.IsActive = false })
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusGone)
		assert.Equal(t, 0, memStore.ClickCount(), "rejected visits are not recorded")
	})

	t.Run("returns 410 for expired link", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			past := time.Now().Add(-time.Hour).UTC()
			l.ExpiresAt = &past
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusGone)
	})

	t.Run("returns 410 when the click cap is reached", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		l := seedLink(t, memStore, func(l *link.Link) {
			limit := int64(2)
			l.MaxClicks = &limit
		})
		handler := newRedirectHandler(memStore)

		for range 2 {
			_, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: l.Slug})
			require.NoError(t, err)
		}

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: l.Slug})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusGone)
		assert.Equal(t, 2, memStore.ClickCount(), "the cap-hitting visit is not recorded")
	})

	t.Run("returns 401 challenge for protected link without password", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusUnauthorized)
		assert.Contains(t, err.Error(), "password")
		assert.Equal(t, 0, memStore.ClickCount())
	})

	t.Run("returns 403 for wrong password", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123", Password: "wrong"})

		assert.Nil(t, resp)
		assertStatus(t, err, http.StatusForbidden)
		assert.Equal(t, 0, memStore.ClickCount())
	})

	t.Run("redirects protected link with correct password", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123", Password: "secret"})

		require.NoError(t, err)
		assert.Equal(t, testDestination, resp.Headers.Location)
		assert.Equal(t, 1, memStore.ClickCount())
	})

	t.Run("expiry takes precedence over the password gate", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
			past := time.Now().Add(-time.Minute).UTC()
			l.ExpiresAt = &past
		})
		handler := newRedirectHandler(memStore)

		_, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		assertStatus(t, err, http.StatusGone)
	})

	t.Run("captures request metadata on the click", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		l := seedLink(t, memStore, nil)

		var published *analytics.LinkVisitedEvent

		handler := handlers.NewRedirectHandler(
			memStore,
			func(e *analytics.LinkVisitedEvent) error {
				published = e

				return nil
			},
			zap.NewNop(),
		)

		meta := handlers.RequestMeta{
			ClientIP:  "203.0.113.9",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0",
			Referrer:  "https://referrer.example",
		}
		metaCtx := handlers.ContextWithRequestMeta(ctx, meta)

		_, err := handler.Redirect(metaCtx, &handlers.RedirectRequest{Slug: l.Slug})

		require.NoError(t, err)
		require.NotNil(t, published)
		assert.Equal(t, l.ID, published.LinkID)
		assert.Equal(t, "203.0.113.9", published.ClientIP)
		assert.Equal(t, "abc123", published.Slug)
		assert.NotEqual(t, uuid.Nil, published.ClickID)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, nil)
		handler := handlers.NewRedirectHandler(
			memStore,
			errorPublish[analytics.LinkVisitedEvent](errors.New("publish error")),
			zap.NewNop(),
		)

		resp, err := handler.Redirect(ctx, &handlers.RedirectRequest{Slug: "abc123"})

		// Publish errors are logged, not returned.
		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status)
		assert.Equal(t, 1, memStore.ClickCount())
	})
}

func TestPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("returns metadata without consuming a click", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			l.Title = "Big Sale"
			l.Description = "All items half off"
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Preview(ctx, &handlers.PreviewRequest{Slug: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, "Big Sale", resp.Body.Title)
		assert.Equal(t, "All items half off", resp.Body.Description)
		assert.Equal(t, 0, memStore.ClickCount())
	})

	t.Run("works for password protected links", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
		})
		handler := newRedirectHandler(memStore)

		resp, err := handler.Preview(ctx, &handlers.PreviewRequest{Slug: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, "abc123", resp.Body.Slug)
	})

	t.Run("hides inactive links", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) { l.IsActive = false })
		handler := newRedirectHandler(memStore)

		_, err := handler.Preview(ctx, &handlers.PreviewRequest{Slug: "abc123"})

		assertStatus(t, err, http.StatusGone)
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		handler := newRedirectHandler(store.NewMemoryStore())

		_, err := handler.Preview(ctx, &handlers.PreviewRequest{Slug: "missing"})

		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()

	protected := func(t *testing.T) *store.MemoryStore {
		t.Helper()

		memStore := store.NewMemoryStore()
		seedLink(t, memStore, func(l *link.Link) {
			hash, err := link.HashPassword("secret")
			require.NoError(t, err)
			l.PasswordHash = hash
		})

		return memStore
	}

	t.Run("accepts the correct password", func(t *testing.T) {
		handler := newRedirectHandler(protected(t))

		req := &handlers.VerifyPasswordRequest{Slug: "abc123"}
		req.Body.Password = "secret"

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Valid)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		memStore := protected(t)
		handler := newRedirectHandler(memStore)

		req := &handlers.VerifyPasswordRequest{Slug: "abc123"}
		req.Body.Password = "wrong"

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.False(t, resp.Body.Valid)
		assert.Equal(t, 0, memStore.ClickCount(), "verification never consumes a click")
	})

	t.Run("unprotected links accept anything", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		seedLink(t, memStore, nil)
		handler := newRedirectHandler(memStore)

		req := &handlers.VerifyPasswordRequest{Slug: "abc123"}
		req.Body.Password = "anything"

		resp, err := handler.VerifyPassword(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Valid)
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		handler := newRedirectHandler(store.NewMemoryStore())

		req := &handlers.VerifyPasswordRequest{Slug: "missing"}

		_, err := handler.VerifyPassword(ctx, req)

		assertStatus(t, err, http.StatusNotFound)
	})
}
