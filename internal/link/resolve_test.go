package link_test

import (
	"testing"
	"time"

	"github.com/serroba/linkdeck/internal/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLink(t *testing.T) *link.Link {
	t.Helper()

	return &link.Link{
		Slug:        "abc1234",
		OriginalURL: "https://example.com",
		IsActive:    true,
	}
}

func int64Ptr(n int64) *int64 {
	return &n
}

func TestResolve(t *testing.T) {
	now := time.Now()

	t.Run("plain active link is resolvable", func(t *testing.T) {
		l := activeLink(t)

		assert.Equal(t, link.VerdictResolvable, l.Resolve("", now))
	})

	t.Run("inactive link is gone regardless of other fields", func(t *testing.T) {
		future := now.Add(time.Hour)
		l := activeLink(t)
		l.IsActive = false
		l.ExpiresAt = &future
		l.MaxClicks = int64Ptr(100)

		assert.Equal(t, link.VerdictInactive, l.Resolve("", now))
	})

	t.Run("expired link is gone even when active", func(t *testing.T) {
		past := now.Add(-time.Minute)
		l := activeLink(t)
		l.ExpiresAt = &past

		assert.Equal(t, link.VerdictExpired, l.Resolve("", now))
	})

	t.Run("future expiry does not block", func(t *testing.T) {
		future := now.Add(time.Minute)
		l := activeLink(t)
		l.ExpiresAt = &future

		assert.Equal(t, link.VerdictResolvable, l.Resolve("", now))
	})

	t.Run("click cap reached is gone", func(t *testing.T) {
		l := activeLink(t)
		l.MaxClicks = int64Ptr(5)
		l.ClicksCount = 5

		assert.Equal(t, link.VerdictCapReached, l.Resolve("", now))
	})

	t.Run("click cap exceeded is gone", func(t *testing.T) {
		l := activeLink(t)
		l.MaxClicks = int64Ptr(5)
		l.ClicksCount = 7

		assert.Equal(t, link.VerdictCapReached, l.Resolve("", now))
	})

	t.Run("below click cap is resolvable", func(t *testing.T) {
		l := activeLink(t)
		l.MaxClicks = int64Ptr(5)
		l.ClicksCount = 4

		assert.Equal(t, link.VerdictResolvable, l.Resolve("", now))
	})

	t.Run("protected link without password requires password", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		l := activeLink(t)
		l.PasswordHash = hash

		assert.Equal(t, link.VerdictPasswordRequired, l.Resolve("", now))
	})

	t.Run("protected link with wrong password mismatches", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		l := activeLink(t)
		l.PasswordHash = hash

		assert.Equal(t, link.VerdictPasswordMismatch, l.Resolve("wrong", now))
	})

	t.Run("protected link with correct password resolves", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		l := activeLink(t)
		l.PasswordHash = hash

		assert.Equal(t, link.VerdictResolvable, l.Resolve("secret", now))
	})

	t.Run("expiry is checked before the password gate", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		past := now.Add(-time.Minute)
		l := activeLink(t)
		l.PasswordHash = hash
		l.ExpiresAt = &past

		// No password supplied, but the verdict is expired, not
		// password-required.
		assert.Equal(t, link.VerdictExpired, l.Resolve("", now))
	})

	t.Run("click cap is checked before the password gate", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		l := activeLink(t)
		l.PasswordHash = hash
		l.MaxClicks = int64Ptr(1)
		l.ClicksCount = 1

		assert.Equal(t, link.VerdictCapReached, l.Resolve("", now))
	})
}

func TestAvailable(t *testing.T) {
	now := time.Now()

	t.Run("ignores click cap and password", func(t *testing.T) {
		hash, err := link.HashPassword("secret")
		require.NoError(t, err)

		l := activeLink(t)
		l.PasswordHash = hash
		l.MaxClicks = int64Ptr(1)
		l.ClicksCount = 1

		assert.Equal(t, link.VerdictResolvable, l.Available(now))
	})

	t.Run("hides inactive links", func(t *testing.T) {
		l := activeLink(t)
		l.IsActive = false

		assert.Equal(t, link.VerdictInactive, l.Available(now))
	})

	t.Run("hides expired links", func(t *testing.T) {
		past := now.Add(-time.Minute)
		l := activeLink(t)
		l.ExpiresAt = &past

		assert.Equal(t, link.VerdictExpired, l.Available(now))
	})
}
