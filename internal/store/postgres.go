package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkdeck/internal/link"
)

const pgUniqueViolation = "23505"

// PostgresStore is the PostgreSQL implementation of link.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const linkColumns = `
	id, user_id, slug, original_url, title, description,
	password_hash, expires_at, max_clicks, clicks_count, is_active,
	created_at, updated_at
`

func (p *PostgresStore) Create(ctx context.Context, l *link.Link) error {
	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := p.pool.Exec(ctx, query,
		l.ID, l.UserID, l.Slug, l.OriginalURL, l.Title, l.Description,
		nullableString(l.PasswordHash), l.ExpiresAt, l.MaxClicks,
		l.ClicksCount, l.IsActive, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return link.ErrSlugTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetBySlug(ctx context.Context, slug string) (*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1`

	l, err := scanLink(p.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return l, nil
}

func (p *PostgresStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*link.Link

	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, l)
	}

	return out, rows.Err()
}

func (p *PostgresStore) Update(ctx context.Context, l *link.Link) error {
	// clicks_count is deliberately absent: the counter is mutated only by
	// RecordClick's atomic increment.
	query := `
		UPDATE links
		SET title = $3, description = $4, password_hash = $5,
		    expires_at = $6, max_clicks = $7, is_active = $8, updated_at = $9
		WHERE slug = $1 AND user_id = $2
	`

	tag, err := p.pool.Exec(ctx, query,
		l.Slug, l.UserID, l.Title, l.Description,
		nullableString(l.PasswordHash), l.ExpiresAt, l.MaxClicks,
		l.IsActive, l.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, userID, slug string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM links WHERE slug = $1 AND user_id = $2`, slug, userID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

// RecordClick inserts the click row and increments the link's counter in a
// single transaction. The increment is a storage-level
// clicks_count = clicks_count + 1, never an application-level
// read-modify-write, so concurrent redirects cannot lose updates.
func (p *PostgresStore) RecordClick(ctx context.Context, c *link.Click) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO clicks (id, link_id, ip_address, user_agent, referrer,
			                    country, device, browser, os, clicked_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			c.ID, c.LinkID, c.IPAddress, c.UserAgent, c.Referrer,
			c.Country, c.Device, c.Browser, c.OS, c.ClickedAt,
		)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE links
			SET clicks_count = clicks_count + 1, updated_at = now()
			WHERE id = $1
		`, c.LinkID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return link.ErrNotFound
		}

		return nil
	})
}

func (p *PostgresStore) SetClickCountry(ctx context.Context, clickID uuid.UUID, country string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE clicks SET country = $2 WHERE id = $1`, clickID, country,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

// AllSlugs returns every slug in the store, used to seed the bloom filter
// at startup.
func (p *PostgresStore) AllSlugs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT slug FROM links`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}

		slugs = append(slugs, s)
	}

	return slugs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*link.Link, error) {
	var (
		l            link.Link
		passwordHash *string
	)

	err := row.Scan(
		&l.ID, &l.UserID, &l.Slug, &l.OriginalURL, &l.Title, &l.Description,
		&passwordHash, &l.ExpiresAt, &l.MaxClicks, &l.ClicksCount,
		&l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash != nil {
		l.PasswordHash = *passwordHash
	}

	return &l, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ link.Repository = (*PostgresStore)(nil)
