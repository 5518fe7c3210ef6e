package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/escapehouses/backend/internal/domain"
)

// BookingFilter narrows a booking listing. Nil fields are ignored.
type BookingFilter struct {
	PropertyID *uuid.UUID
	Status     *domain.BookingStatus
	From       *time.Time // check_in on or after
	To         *time.Time // check_out on or before
}

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// List returns bookings matching filter ordered by created_at descending,
	// along with the total match count for pagination.
	List(ctx context.Context, filter BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error)

	// Update overwrites the mutable fields of a booking (guest details, dates,
	// party size, price, requests) and returns the updated record.
	// Returns domain.ErrNotFound if the booking does not exist.
	Update(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// UpdateStatus sets only the lifecycle status of a booking.
	// Returns domain.ErrNotFound if the booking does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)

	// Delete removes a booking by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListBlocking returns all pending/confirmed bookings for a property,
	// ordered by check_in ascending. Cancelled and completed bookings never
	// appear here.
	ListBlocking(ctx context.Context, propertyID uuid.UUID) ([]domain.Booking, error)

	// ListBlockingUntil is ListBlocking limited to bookings whose check_in is
	// on or before until — the bounded lookahead window of the
	// next-available-date scan.
	ListBlockingUntil(ctx context.Context, propertyID uuid.UUID, until time.Time) ([]domain.Booking, error)

	// ListOverlapping returns the pending/confirmed bookings for a property
	// whose stay overlaps the half-open range [checkIn, checkOut), excluding
	// excludeID when non-nil (so an edited booking never conflicts with
	// itself). Ordered by check_in ascending.
	ListOverlapping(ctx context.Context, propertyID uuid.UUID, stay domain.DateRange, excludeID *uuid.UUID) ([]domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, property_id, guest_name, guest_email, guest_phone,
		check_in, check_out, guests, status, total_price, special_requests,
		created_at, updated_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (property_id, guest_name, guest_email, guest_phone,
			check_in, check_out, guests, status, total_price, special_requests)
		VALUES (@property_id, @guest_name, @guest_email, @guest_phone,
			@check_in, @check_out, @guests, @status, @total_price, @special_requests)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"property_id":      b.PropertyID,
		"guest_name":       b.GuestName,
		"guest_email":      b.GuestEmail,
		"guest_phone":      b.GuestPhone,
		"check_in":         b.CheckIn,
		"check_out":        b.CheckOut,
		"guests":           b.Guests,
		"status":           string(b.Status),
		"total_price":      b.TotalPrice, // nil becomes NULL
		"special_requests": b.SpecialRequests,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) List(ctx context.Context, filter BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error) {
	// All filter fields are applied as "NULL means no constraint" so a single
	// statement serves every filter combination.
	const where = `
		WHERE (@property_id::uuid IS NULL OR property_id = @property_id)
		  AND (@status::text IS NULL OR status = @status)
		  AND (@from::date IS NULL OR check_in >= @from)
		  AND (@to::date IS NULL OR check_out <= @to)`

	args := pgx.NamedArgs{
		"property_id": filter.PropertyID,
		"status":      nil,
		"from":        filter.From,
		"to":          filter.To,
		"limit":       page.Limit,
		"offset":      page.Offset(),
	}
	if filter.Status != nil {
		args["status"] = string(*filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.List: count: %w", err)
	}

	q := `SELECT ` + bookingColumns + ` FROM bookings` + where + `
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.List: %w", err)
	}
	defer rows.Close()

	bookings, err := collectBookings(rows, "repo.BookingRepo.List")
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET guest_name       = @guest_name,
		    guest_email      = @guest_email,
		    guest_phone      = @guest_phone,
		    check_in         = @check_in,
		    check_out        = @check_out,
		    guests           = @guests,
		    total_price      = @total_price,
		    special_requests = @special_requests,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"id":               b.ID,
		"guest_name":       b.GuestName,
		"guest_email":      b.GuestEmail,
		"guest_phone":      b.GuestPhone,
		"check_in":         b.CheckIn,
		"check_out":        b.CheckOut,
		"guests":           b.Guests,
		"total_price":      b.TotalPrice,
		"special_requests": b.SpecialRequests,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM bookings WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgBookingRepo) ListBlocking(ctx context.Context, propertyID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = @property_id
		  AND status IN ('pending', 'confirmed')
		ORDER BY check_in`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"property_id": propertyID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBlocking: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListBlocking")
}

func (r *pgBookingRepo) ListBlockingUntil(ctx context.Context, propertyID uuid.UUID, until time.Time) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = @property_id
		  AND status IN ('pending', 'confirmed')
		  AND check_in <= @until
		ORDER BY check_in`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"property_id": propertyID, "until": until})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBlockingUntil: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListBlockingUntil")
}

func (r *pgBookingRepo) ListOverlapping(ctx context.Context, propertyID uuid.UUID, stay domain.DateRange, excludeID *uuid.UUID) ([]domain.Booking, error) {
	// The overlap predicate spells out the four sub-cases (existing starts
	// within requested, ends within requested, encompasses it, or is
	// encompassed by it) rather than the equivalent single comparison
	// check_in < @check_out AND check_out > @check_in. The equivalence is
	// pinned by TestOverlaps_fourCaseEquivalence in the domain package.
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = @property_id
		  AND status IN ('pending', 'confirmed')
		  AND (@exclude_id::uuid IS NULL OR id <> @exclude_id)
		  AND (
		       (check_in  >= @check_in AND check_in  <  @check_out)
		    OR (check_out >  @check_in AND check_out <= @check_out)
		    OR (check_in  <= @check_in AND check_out >= @check_out)
		    OR (check_in  >= @check_in AND check_out <= @check_out)
		  )
		ORDER BY check_in`

	args := pgx.NamedArgs{
		"property_id": propertyID,
		"check_in":    stay.Start,
		"check_out":   stay.End,
		"exclude_id":  excludeID,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListOverlapping: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListOverlapping")
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the UUID, date, and nullable total_price conversions.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		id         pgtype.UUID
		propertyID pgtype.UUID
		checkIn    pgtype.Date
		checkOut   pgtype.Date
		status     string
		price      pgtype.Float8
	)

	err := s.Scan(&id, &propertyID, &b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&checkIn, &checkOut, &b.Guests, &status, &price, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.PropertyID = uuid.UUID(propertyID.Bytes)
	b.CheckIn = checkIn.Time
	b.CheckOut = checkOut.Time
	b.Status = domain.BookingStatus(status)
	if price.Valid {
		p := price.Float64
		b.TotalPrice = &p
	}

	return b, nil
}

// collectBookings drains rows into a slice, wrapping errors with op.
func collectBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return bookings, nil
}
