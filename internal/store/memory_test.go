package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/link"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredLink(t *testing.T, m *store.MemoryStore, userID, slug string) *link.Link {
	t.Helper()

	now := time.Now().UTC()
	l := &link.Link{
		ID:          uuid.New(),
		UserID:      userID,
		Slug:        slug,
		OriginalURL: "https://example.com",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	require.NoError(t, m.Create(context.Background(), l))

	return l
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create then get by slug", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		got, err := m.GetBySlug(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, l.ID, got.ID)
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})

	t.Run("get missing slug", func(t *testing.T) {
		m := store.NewMemoryStore()

		_, err := m.GetBySlug(ctx, "nope")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		m := store.NewMemoryStore()
		newStoredLink(t, m, "user-1", "abc123")

		err := m.Create(ctx, &link.Link{ID: uuid.New(), UserID: "user-2", Slug: "abc123"})

		assert.ErrorIs(t, err, link.ErrSlugTaken)
	})

	t.Run("slug exists", func(t *testing.T) {
		m := store.NewMemoryStore()
		newStoredLink(t, m, "user-1", "abc123")

		taken, err := m.SlugExists(ctx, "abc123")
		require.NoError(t, err)
		assert.True(t, taken)

		free, err := m.SlugExists(ctx, "free")
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("list is user scoped", func(t *testing.T) {
		m := store.NewMemoryStore()
		newStoredLink(t, m, "user-1", "one")
		newStoredLink(t, m, "user-1", "two")
		newStoredLink(t, m, "user-2", "three")

		out, err := m.ListByUser(ctx, "user-1")

		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		m := store.NewMemoryStore()
		newStoredLink(t, m, "user-1", "abc123")

		assert.ErrorIs(t, m.Delete(ctx, "user-2", "abc123"), link.ErrNotFound)
		assert.NoError(t, m.Delete(ctx, "user-1", "abc123"))

		_, err := m.GetBySlug(ctx, "abc123")
		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("update preserves the click counter", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		require.NoError(t, m.RecordClick(ctx, &link.Click{ID: uuid.New(), LinkID: l.ID}))

		l.Title = "renamed"
		l.ClicksCount = 999 // stale value from a caller snapshot
		require.NoError(t, m.Update(ctx, l))

		got, err := m.GetBySlug(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, int64(1), got.ClicksCount)
	})

	t.Run("update rejects foreign links", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		foreign := *l
		foreign.UserID = "user-2"

		assert.ErrorIs(t, m.Update(ctx, &foreign), link.ErrNotFound)
	})
}

func TestMemoryStoreRecordClick(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the click and increments the counter", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		err := m.RecordClick(ctx, &link.Click{
			ID:        uuid.New(),
			LinkID:    l.ID,
			IPAddress: "203.0.113.9",
			ClickedAt: time.Now().UTC(),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, m.ClickCount())

		got, err := m.GetBySlug(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ClicksCount)
	})

	t.Run("unknown link id", func(t *testing.T) {
		m := store.NewMemoryStore()

		err := m.RecordClick(ctx, &link.Click{ID: uuid.New(), LinkID: uuid.New()})

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("concurrent clicks each count exactly once", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		const clicks = 50

		var wg sync.WaitGroup

		for range clicks {
			wg.Add(1)

			go func() {
				defer wg.Done()

				assert.NoError(t, m.RecordClick(ctx, &link.Click{ID: uuid.New(), LinkID: l.ID}))
			}()
		}

		wg.Wait()

		got, err := m.GetBySlug(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(clicks), got.ClicksCount)
		assert.Equal(t, clicks, m.ClickCount())
	})

	t.Run("set click country", func(t *testing.T) {
		m := store.NewMemoryStore()
		l := newStoredLink(t, m, "user-1", "abc123")

		clickID := uuid.New()
		require.NoError(t, m.RecordClick(ctx, &link.Click{ID: clickID, LinkID: l.ID}))

		require.NoError(t, m.SetClickCountry(ctx, clickID, "DE"))
		assert.ErrorIs(t, m.SetClickCountry(ctx, uuid.New(), "DE"), link.ErrNotFound)
	})
}
