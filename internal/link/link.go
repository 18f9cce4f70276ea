package link

import (
	"time"

	"github.com/google/uuid"
)

// Link is a shortened URL owned by a user. The slug is globally unique and
// immutable after creation; ClicksCount is mutated only through
// Repository.RecordClick.
type Link struct {
	ID           uuid.UUID
	UserID       string
	Slug         string
	OriginalURL  string
	Title        string
	Description  string
	PasswordHash string // empty means the link is not password protected
	ExpiresAt    *time.Time
	MaxClicks    *int64
	ClicksCount  int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Click is an append-only visit record. Country starts empty and is
// back-filled asynchronously by the analytics consumer.
type Click struct {
	ID        uuid.UUID
	LinkID    uuid.UUID
	IPAddress string
	UserAgent string
	Referrer  string
	Country   string
	Device    string
	Browser   string
	OS        string
	ClickedAt time.Time
}
