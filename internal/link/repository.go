package link

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage operations for links and clicks.
//
// GetBySlug is unscoped: the redirect path serves anonymous visitors, so it
// must not be filtered by owner. All mutating operations except RecordClick
// are owner-scoped.
type Repository interface {
	// Create inserts a new link. Returns ErrSlugTaken when the slug
	// unique constraint is violated.
	Create(ctx context.Context, l *Link) error

	// GetBySlug returns the link with the given slug regardless of owner.
	GetBySlug(ctx context.Context, slug string) (*Link, error)

	// SlugExists reports whether any link uses the slug. Used as a
	// pre-insert filter during random slug acquisition.
	SlugExists(ctx context.Context, slug string) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]*Link, error)

	// Update persists mutable fields (title, description, password hash,
	// expiry, click cap, active flag) of a link owned by l.UserID.
	Update(ctx context.Context, l *Link) error

	// Delete removes a link owned by userID. Returns ErrNotFound when no
	// such link exists.
	Delete(ctx context.Context, userID, slug string) error

	// RecordClick appends the click row and increments the link's counter
	// by exactly one, atomically: either both writes apply or neither.
	RecordClick(ctx context.Context, c *Click) error

	// SetClickCountry back-fills the derived country code on a click row.
	SetClickCountry(ctx context.Context, clickID uuid.UUID, country string) error
}
