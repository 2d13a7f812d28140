package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"flightbooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightSearch struct {
	From string
	To   string
	Date time.Time
}

type CatalogStats struct {
	TotalFlights  int   `json:"totalFlights"`
	ActiveFlights int   `json:"activeFlights"`
	TotalBookings int   `json:"totalBookings"`
	TotalRevenue  int64 `json:"totalRevenue"`
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	MarkDeparted(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, aircraft, route, duration_min, pricing, seat_map, status, is_active, total_bookings, revenue, departure_time, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	var departure time.Time
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Aircraft, &f.Route, &f.DurationMin,
		&f.Pricing, &f.SeatMap, &f.Status, &f.IsActive,
		&f.BookingDetails.TotalBookings, &f.BookingDetails.Revenue,
		&departure, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE is_active ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, filter FlightSearch) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE is_active`
	args := []any{}
	if filter.From != "" {
		args = append(args, filter.From)
		query += ` AND route->'departure'->'airport'->>'code' = $1`
	}
	if filter.To != "" {
		args = append(args, filter.To)
		query += ` AND route->'arrival'->'airport'->>'code' = $` + strconv.Itoa(len(args))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date)
		query += ` AND departure_time::date = $` + strconv.Itoa(len(args)) + `::date`
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "flight not found")
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (id, flight_number, airline, aircraft, route, duration_min, pricing, seat_map, status, is_active, total_bookings, revenue, departure_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		flight.ID, flight.FlightNumber, flight.Airline, flight.Aircraft, flight.Route, flight.DurationMin,
		flight.Pricing, flight.SeatMap, flight.Status, flight.IsActive,
		flight.BookingDetails.TotalBookings, flight.BookingDetails.Revenue,
		flight.Route.Departure.Time).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) MarkDeparted(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET status=$1, updated_at=now() WHERE status=$2 AND departure_time <= $3`,
		domain.FlightStatusDeparted, domain.FlightStatusScheduled, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGFlightRepository) Stats(ctx context.Context) (*CatalogStats, error) {
	var s CatalogStats
	err := r.db.QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE is_active), coalesce(sum(total_bookings),0), coalesce(sum(revenue),0) FROM flights`).
		Scan(&s.TotalFlights, &s.ActiveFlights, &s.TotalBookings, &s.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
