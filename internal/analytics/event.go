package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Topics for the analytics event stream.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a link is created.
type LinkCreatedEvent struct {
	LinkID      uuid.UUID `json:"linkId"`
	Slug        string    `json:"slug"`
	OriginalURL string    `json:"originalUrl"`
	UserID      string    `json:"userId"`
	CustomSlug  bool      `json:"customSlug"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkVisitedEvent is emitted after a click has been recorded. ClickID
// references the already-persisted click row so the consumer can enrich it.
type LinkVisitedEvent struct {
	ClickID   uuid.UUID `json:"clickId"`
	LinkID    uuid.UUID `json:"linkId"`
	Slug      string    `json:"slug"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
	VisitedAt time.Time `json:"visitedAt"`
}
