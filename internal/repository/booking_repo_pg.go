package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"flightbooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightMutation is domain logic run against a flight row locked FOR UPDATE.
// Returning an error aborts the transaction with no mutation.
type FlightMutation func(flight *domain.Flight) error

// BookingMutation is the cancel-side counterpart: booking and its flight are
// both locked for the duration of the callback.
type BookingMutation func(booking *domain.Booking, flight *domain.Flight) error

type BookingListFilter struct {
	Status domain.BookingStatus
	Page   int
	Limit  int
}

type BookingRepository interface {
	// Create persists the booking and applies mutate to its flight inside
	// one transaction. The flight row is locked, so seat mutation and the
	// aggregate counters move atomically with the insert.
	Create(ctx context.Context, booking *domain.Booking, mutate FlightMutation) error
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, filter BookingListFilter) ([]domain.Booking, int, error)
	// Update persists booking-only changes (check-in, notification flags).
	Update(ctx context.Context, booking *domain.Booking) error
	// UpdateWithFlight locks the booking and its flight, applies mutate and
	// persists both. Used for cancellation, where seats flow back to the
	// flight document.
	UpdateWithFlight(ctx context.Context, ref string, mutate BookingMutation) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_id, pnr, user_id, flight_id, passengers, contact, pricing, payment, special_services, status, check_in, cancellation, notifications, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.BookingID, &b.PNR, &b.UserID, &b.FlightID,
		&b.Passengers, &b.ContactDetails, &b.Pricing, &b.Payment, &b.SpecialServices,
		&b.Status, &b.CheckIn, &b.Cancellation, &b.Notifications,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, mutate FlightMutation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight, err := lockFlight(ctx, tx, booking.FlightID)
	if err != nil {
		return err
	}

	if err := mutate(flight); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, booking_id, pnr, user_id, flight_id, passengers, contact, pricing, payment, special_services, status, check_in, cancellation, notifications)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		booking.ID, booking.BookingID, booking.PNR, booking.UserID, booking.FlightID,
		booking.Passengers, booking.ContactDetails, booking.Pricing, booking.Payment, booking.SpecialServices,
		booking.Status, booking.CheckIn, booking.Cancellation, booking.Notifications).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	if err := saveFlight(ctx, tx, flight); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 OR booking_id=$1`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "booking not found")
	}
	return b, err
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, strings.ToUpper(pnr)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "booking not found with this PNR")
	}
	return b, err
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string, filter BookingListFilter) ([]domain.Booking, int, error) {
	where := `WHERE user_id=$1`
	args := []any{userID}
	if filter.Status != "" {
		where += ` AND status=$2`
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings `+where+
		` ORDER BY created_at DESC OFFSET `+strconv.Itoa(offset)+` LIMIT `+strconv.Itoa(filter.Limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status=$2, check_in=$3, cancellation=$4, notifications=$5, updated_at=now() WHERE id=$1`,
		booking.ID, booking.Status, booking.CheckIn, booking.Cancellation, booking.Notifications)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.E(domain.KindNotFound, "booking not found")
	}
	return nil
}

func (r *PGBookingRepository) UpdateWithFlight(ctx context.Context, ref string, mutate BookingMutation) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 OR booking_id=$1 FOR UPDATE`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "booking not found")
	}
	if err != nil {
		return nil, err
	}

	flight, err := lockFlight(ctx, tx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	if err := mutate(booking, flight); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$2, check_in=$3, cancellation=$4, notifications=$5, updated_at=now() WHERE id=$1`,
		booking.ID, booking.Status, booking.CheckIn, booking.Cancellation, booking.Notifications); err != nil {
		return nil, err
	}

	if err := saveFlight(ctx, tx, flight); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// lockFlight reads the flight row FOR UPDATE, serializing every seat
// mutation on that flight for the rest of the transaction.
func lockFlight(ctx context.Context, tx pgx.Tx, flightID string) (*domain.Flight, error) {
	f, err := scanFlight(tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, flightID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "flight not found")
	}
	return f, err
}

func saveFlight(ctx context.Context, tx pgx.Tx, flight *domain.Flight) error {
	_, err := tx.Exec(ctx, `UPDATE flights SET pricing=$2, seat_map=$3, status=$4, total_bookings=$5, revenue=$6, updated_at=now() WHERE id=$1`,
		flight.ID, flight.Pricing, flight.SeatMap, flight.Status,
		flight.BookingDetails.TotalBookings, flight.BookingDetails.Revenue)
	return err
}

// IsUniqueViolation reports a duplicate-key insert, e.g. a PNR collision.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingRepository = (*PGBookingRepository)(nil)
