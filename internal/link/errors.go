package link

import "errors"

var (
	// ErrNotFound indicates no link exists for the given slug (or the
	// caller does not own it).
	ErrNotFound = errors.New("link not found")

	// ErrSlugTaken indicates the slug is already in use. Stores return it
	// on unique-constraint violations; the pre-insert existence check is
	// only an optimization.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrInvalidSlug indicates a custom slug violates the length or
	// character policy.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrReservedSlug indicates the slug shadows a reserved path segment.
	ErrReservedSlug = errors.New("slug is reserved")

	// ErrInvalidURL indicates the destination URL is not http or https.
	ErrInvalidURL = errors.New("invalid destination url")

	// ErrSlugSpaceExhausted indicates random generation could not find a
	// free slug within the retry bound.
	ErrSlugSpaceExhausted = errors.New("could not find a free slug")
)
