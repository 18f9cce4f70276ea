package link

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the random slug acquisition loop. Collisions are
// rare for the alphabet and length in use, but an unbounded loop risks
// livelock under pathological load.
const maxSlugAttempts = 10

// Service implements link management: creation with slug acquisition,
// owner-scoped reads and mutations.
type Service struct {
	repo   Repository
	slugs  *SlugGenerator
	filter *SlugFilter
	logger *zap.Logger
}

// NewService creates a link service.
func NewService(repo Repository, slugs *SlugGenerator, filter *SlugFilter, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		slugs:  slugs,
		filter: filter,
		logger: logger,
	}
}

// CreateParams describes a new link. CustomSlug may be empty, in which case
// a random slug is acquired.
type CreateParams struct {
	UserID      string
	OriginalURL string
	CustomSlug  string
	Title       string
	Description string
	Password    string
	ExpiresAt   *time.Time
	MaxClicks   *int64
}

// UpdateParams carries partial updates; nil fields are left unchanged.
// Setting Password to an empty string removes password protection.
type UpdateParams struct {
	Title       *string
	Description *string
	IsActive    *bool
	Password    *string
	ExpiresAt   *time.Time
	MaxClicks   *int64
}

// ValidateURL checks that raw parses as an absolute http or https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	return nil
}

// Create validates the params, acquires a slug, and inserts the link.
// Custom slug conflicts surface as ErrSlugTaken; the datastore unique
// constraint is the correctness guarantee for races between the
// availability check and the insert.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Link, error) {
	if err := ValidateURL(p.OriginalURL); err != nil {
		return nil, err
	}

	var passwordHash string

	if p.Password != "" {
		hash, err := HashPassword(p.Password)
		if err != nil {
			return nil, err
		}

		passwordHash = hash
	}

	now := time.Now().UTC()
	l := &Link{
		ID:           uuid.New(),
		UserID:       p.UserID,
		OriginalURL:  p.OriginalURL,
		Title:        p.Title,
		Description:  p.Description,
		PasswordHash: passwordHash,
		ExpiresAt:    p.ExpiresAt,
		MaxClicks:    p.MaxClicks,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if p.CustomSlug != "" {
		if err := ValidateSlug(p.CustomSlug); err != nil {
			return nil, err
		}

		taken, err := s.repo.SlugExists(ctx, p.CustomSlug)
		if err != nil {
			return nil, err
		}

		if taken {
			return nil, ErrSlugTaken
		}

		l.Slug = p.CustomSlug
		if err := s.repo.Create(ctx, l); err != nil {
			return nil, err
		}

		s.filter.Add(l.Slug)

		return l, nil
	}

	return s.createWithRandomSlug(ctx, l)
}

func (s *Service) createWithRandomSlug(ctx context.Context, l *Link) (*Link, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := s.slugs.Generate()

		if s.filter.MightContain(candidate) {
			taken, err := s.repo.SlugExists(ctx, candidate)
			if err != nil {
				return nil, err
			}

			if taken {
				continue
			}
		}

		l.Slug = candidate

		err := s.repo.Create(ctx, l)
		if err == nil {
			s.filter.Add(candidate)

			return l, nil
		}

		// Lost the race for this candidate; try the next one.
		if errors.Is(err, ErrSlugTaken) {
			s.logger.Debug("slug candidate collided", zap.String("slug", candidate))

			continue
		}

		return nil, err
	}

	return nil, ErrSlugSpaceExhausted
}

// Get returns a link owned by userID. A link owned by someone else is
// indistinguishable from a missing one.
func (s *Service) Get(ctx context.Context, userID, slug string) (*Link, error) {
	l, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if l.UserID != userID {
		return nil, ErrNotFound
	}

	return l, nil
}

// List returns all links owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]*Link, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update applies partial changes to a link owned by userID.
func (s *Service) Update(ctx context.Context, userID, slug string, p UpdateParams) (*Link, error) {
	l, err := s.Get(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		l.Title = *p.Title
	}

	if p.Description != nil {
		l.Description = *p.Description
	}

	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}

	if p.ExpiresAt != nil {
		l.ExpiresAt = p.ExpiresAt
	}

	if p.MaxClicks != nil {
		l.MaxClicks = p.MaxClicks
	}

	if p.Password != nil {
		if *p.Password == "" {
			l.PasswordHash = ""
		} else {
			hash, err := HashPassword(*p.Password)
			if err != nil {
				return nil, err
			}

			l.PasswordHash = hash
		}
	}

	l.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// Delete removes a link owned by userID.
func (s *Service) Delete(ctx context.Context, userID, slug string) error {
	return s.repo.Delete(ctx, userID, slug)
}
