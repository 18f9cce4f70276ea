package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository used in
// tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	links  map[string]*link.Link  // slug -> link
	clicks map[uuid.UUID]*link.Click
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[string]*link.Link),
		clicks: make(map[uuid.UUID]*link.Click),
	}
}

func (m *MemoryStore) Create(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.Slug]; ok {
		return link.ErrSlugTaken
	}

	cp := *l
	m.links[l.Slug] = &cp

	return nil
}

func (m *MemoryStore) GetBySlug(_ context.Context, slug string) (*link.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[slug]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *l

	return &cp, nil
}

func (m *MemoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.links[slug]

	return ok, nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]*link.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*link.Link

	for _, l := range m.links {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.links[l.Slug]
	if !ok || stored.UserID != l.UserID {
		return link.ErrNotFound
	}

	cp := *l
	cp.ClicksCount = stored.ClicksCount // counter is owned by RecordClick
	m.links[l.Slug] = &cp

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[slug]
	if !ok || l.UserID != userID {
		return link.ErrNotFound
	}

	delete(m.links, slug)

	return nil
}

func (m *MemoryStore) RecordClick(_ context.Context, c *link.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.links {
		if l.ID == c.LinkID {
			cp := *c
			m.clicks[c.ID] = &cp
			l.ClicksCount++

			return nil
		}
	}

	return link.ErrNotFound
}

func (m *MemoryStore) SetClickCountry(_ context.Context, clickID uuid.UUID, country string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clicks[clickID]
	if !ok {
		return link.ErrNotFound
	}

	c.Country = country

	return nil
}

// ClickCount returns the number of stored click rows, for tests.
func (m *MemoryStore) ClickCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.clicks)
}

// Compile-time check.
var _ link.Repository = (*MemoryStore)(nil)
