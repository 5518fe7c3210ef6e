// Package repo contains all database access logic for the Escape Houses API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/escapehouses/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PropertyRepo defines the persistence operations for Properties.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PropertyRepo interface {
	// Create inserts a new property and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, p domain.Property) (domain.Property, error)

	// GetByID retrieves a single property by its UUID primary key.
	// Returns domain.ErrNotFound if no property with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)

	// GetBySlug retrieves a single property by its unique slug.
	// Returns domain.ErrNotFound if no property with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Property, error)

	// List returns properties ordered by title. With onlyPublished set,
	// unpublished listings are filtered out (the public catalogue view).
	List(ctx context.Context, onlyPublished bool) ([]domain.Property, error)

	// ListWithFeed returns all properties that have an external calendar URL
	// configured, for the background feed sync pass.
	ListWithFeed(ctx context.Context) ([]domain.Property, error)

	// Update overwrites the mutable fields of an existing property and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, p domain.Property) (domain.Property, error)

	// Delete removes a property by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPropertyRepo is the Postgres implementation of PropertyRepo.
type pgPropertyRepo struct {
	db db
}

// NewPropertyRepo constructs a PropertyRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPropertyRepo(db db) PropertyRepo {
	return &pgPropertyRepo{db: db}
}

const propertyColumns = `id, title, slug, location, sleeps, bedrooms,
		price_midweek, price_weekend, description, ical_url,
		featured, published, created_at, updated_at`

func (r *pgPropertyRepo) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	const q = `
		INSERT INTO properties (title, slug, location, sleeps, bedrooms,
			price_midweek, price_weekend, description, ical_url, featured, published)
		VALUES (@title, @slug, @location, @sleeps, @bedrooms,
			@price_midweek, @price_weekend, @description, @ical_url, @featured, @published)
		RETURNING ` + propertyColumns

	row := r.db.QueryRow(ctx, q, propertyArgs(p))
	result, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("repo.PropertyRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("repo.PropertyRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPropertyRepo) GetBySlug(ctx context.Context, slug string) (domain.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("repo.PropertyRepo.GetBySlug: %w", err)
	}
	return result, nil
}

func (r *pgPropertyRepo) List(ctx context.Context, onlyPublished bool) ([]domain.Property, error) {
	const q = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE (NOT @only_published::boolean) OR published
		ORDER BY title`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"only_published": onlyPublished})
	if err != nil {
		return nil, fmt.Errorf("repo.PropertyRepo.List: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows, "repo.PropertyRepo.List")
}

func (r *pgPropertyRepo) ListWithFeed(ctx context.Context) ([]domain.Property, error) {
	const q = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE ical_url IS NOT NULL AND ical_url <> ''
		ORDER BY title`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PropertyRepo.ListWithFeed: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows, "repo.PropertyRepo.ListWithFeed")
}

func (r *pgPropertyRepo) Update(ctx context.Context, p domain.Property) (domain.Property, error) {
	const q = `
		UPDATE properties
		SET title          = @title,
		    slug           = @slug,
		    location       = @location,
		    sleeps         = @sleeps,
		    bedrooms       = @bedrooms,
		    price_midweek  = @price_midweek,
		    price_weekend  = @price_weekend,
		    description    = @description,
		    ical_url       = @ical_url,
		    featured       = @featured,
		    published      = @published,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + propertyColumns

	args := propertyArgs(p)
	args["id"] = p.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("repo.PropertyRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM properties WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PropertyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PropertyRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// propertyArgs maps the mutable property fields to named SQL arguments.
func propertyArgs(p domain.Property) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":         p.Title,
		"slug":          p.Slug,
		"location":      p.Location,
		"sleeps":        p.Sleeps,
		"bedrooms":      p.Bedrooms,
		"price_midweek": p.PriceMidweek,
		"price_weekend": p.PriceWeekend,
		"description":   p.Description,
		"ical_url":      p.ICalURL, // nil becomes NULL
		"featured":      p.Featured,
		"published":     p.Published,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanProperty maps a single database row into a domain.Property.
func scanProperty(s scanner) (domain.Property, error) {
	var (
		p       domain.Property
		id      pgtype.UUID
		icalURL pgtype.Text
	)

	err := s.Scan(&id, &p.Title, &p.Slug, &p.Location, &p.Sleeps, &p.Bedrooms,
		&p.PriceMidweek, &p.PriceWeekend, &p.Description, &icalURL,
		&p.Featured, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if icalURL.Valid && icalURL.String != "" {
		u := icalURL.String
		p.ICalURL = &u
	}

	return p, nil
}

// collectProperties drains rows into a slice, wrapping errors with op.
func collectProperties(rows pgx.Rows, op string) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return props, nil
}
