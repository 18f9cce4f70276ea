package link

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const slugAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	// MinSlugLen and MaxSlugLen bound custom slugs.
	MinSlugLen = 3
	MaxSlugLen = 50

	minGeneratedLen = 6
	maxGeneratedLen = 8
)

// reservedSlugs are path segments owned by the service itself. They are
// rejected at creation so they can never shadow the management API or the
// generated documentation.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"health":  {},
	"docs":    {},
	"openapi": {},
	"schemas": {},
}

// IsReservedSlug reports whether slug collides with a reserved path segment.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]

	return ok
}

// ValidateSlug checks a caller-supplied custom slug against the length and
// character policy: 3-50 characters from [A-Za-z0-9-].
func ValidateSlug(slug string) error {
	if len(slug) < MinSlugLen || len(slug) > MaxSlugLen {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidSlug, MinSlugLen, MaxSlugLen)
	}

	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}

		return fmt.Errorf("%w: only letters, digits and hyphens are allowed", ErrInvalidSlug)
	}

	if IsReservedSlug(slug) {
		return fmt.Errorf("%w: %q", ErrReservedSlug, slug)
	}

	return nil
}

// SlugGenerator produces random slugs drawn uniformly from [A-Za-z0-9].
// It performs no collision checking; callers must verify availability.
type SlugGenerator struct {
	generate func() string
	length   int
}

// NewSlugGenerator creates a generator for slugs of the given length,
// clamped to [6,8].
func NewSlugGenerator(length int) (*SlugGenerator, error) {
	if length < minGeneratedLen {
		length = minGeneratedLen
	}

	if length > maxGeneratedLen {
		length = maxGeneratedLen
	}

	gen, err := nanoid.CustomASCII(slugAlphabet, length)
	if err != nil {
		return nil, err
	}

	return &SlugGenerator{generate: gen, length: length}, nil
}

// Generate returns a new random slug.
func (g *SlugGenerator) Generate() string {
	return g.generate()
}

// Length returns the configured slug length.
func (g *SlugGenerator) Length() int {
	return g.length
}
