package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightSearch struct {
	Source      string
	Destination string
	DepartAfter *time.Time
}

type FlightRepository interface {
	Create(ctx context.Context, f *domain.Flight) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, q FlightSearch) ([]domain.Flight, error)
	AdjustCapacity(ctx context.Context, id int64, newTotal int) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	Cities(ctx context.Context) (sources, destinations []string, err error)
	Airlines(ctx context.Context) ([]domain.Airline, error)
}

const flightColumns = `flight_id, flight_number, airline_id, source_city, destination_city, departure_time, arrival_time, duration_minutes, total_seats, available_seats, price_cents, flight_status, recurrence, weekdays, created_by, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline_id, source_city, destination_city, departure_time, arrival_time, duration_minutes, total_seats, available_seats, price_cents, flight_status, recurrence, weekdays, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9, $10, $11, $12, $13)
		RETURNING flight_id, available_seats, created_at, updated_at`,
		f.FlightNumber, f.AirlineID, f.SourceCity, f.DestinationCity, f.DepartureTime, f.ArrivalTime, f.DurationMinutes,
		f.TotalSeats, f.PriceCents, f.Status, f.Recurrence, formatWeekdays(f.Weekdays), f.CreatedBy).
		Scan(&f.ID, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("flight %d not found", id)
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, q FlightSearch) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_status NOT IN ('CANCELLED', 'COMPLETED') AND (available_seats > 0 OR recurrence <> 'ONE_SHOT')`
	args := make([]any, 0, 3)
	if q.Source != "" {
		args = append(args, q.Source)
		query += fmt.Sprintf(" AND source_city=$%d", len(args))
	}
	if q.Destination != "" {
		args = append(args, q.Destination)
		query += fmt.Sprintf(" AND destination_city=$%d", len(args))
	}
	if q.DepartAfter != nil {
		args = append(args, *q.DepartAfter)
		query += fmt.Sprintf(" AND (departure_time >= $%d OR recurrence <> 'ONE_SHOT')", len(args))
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

// AdjustCapacity resizes a flight while preserving already-booked seats:
// available becomes new_total - booked. Shrinking below the booked count is
// rejected rather than clamped.
func (r *PGFlightRepository) AdjustCapacity(ctx context.Context, id int64, newTotal int) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `UPDATE flights
		SET total_seats=$2, available_seats=$2-(total_seats-available_seats), updated_at=now()
		WHERE flight_id=$1 AND total_seats-available_seats <= $2
		RETURNING `+flightColumns, id, newTotal)
	f, err := scanFlight(row)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Distinguish a missing flight from a capacity below booked seats.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.Validationf("new capacity %d is below the number of booked seats", newTotal)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var active int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND booking_status IN ('CONFIRMED', 'PENDING')`, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return domain.Conflictf("cannot delete flight: %d active booking(s) exist", active)
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM flights WHERE flight_id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundf("flight %d not found", id)
	}
	return tx.Commit(ctx)
}

func (r *PGFlightRepository) Cities(ctx context.Context) ([]string, []string, error) {
	sources, err := r.distinctCities(ctx, "source_city")
	if err != nil {
		return nil, nil, err
	}
	destinations, err := r.distinctCities(ctx, "destination_city")
	if err != nil {
		return nil, nil, err
	}
	return sources, destinations, nil
}

func (r *PGFlightRepository) distinctCities(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT `+column+` FROM flights ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func (r *PGFlightRepository) Airlines(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT airline_id, airline_name, airline_code, contact_number, email, is_active FROM airlines WHERE is_active ORDER BY airline_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.ContactNumber, &a.Email, &a.Active); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	var weekdays *string
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.AirlineID, &f.SourceCity, &f.DestinationCity, &f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes,
		&f.TotalSeats, &f.AvailableSeats, &f.PriceCents, &f.Status, &f.Recurrence, &weekdays, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Weekdays = parseWeekdays(weekdays)
	return &f, nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()
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

// Weekdays are stored as comma-separated day numbers ("0,2,4"), NULL when
// the flight is not weekly.
func formatWeekdays(days []int) *string {
	if len(days) == 0 {
		return nil
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	s := strings.Join(parts, ",")
	return &s
}

func parseWeekdays(s *string) []int {
	if s == nil || *s == "" {
		return nil
	}
	parts := strings.Split(*s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}

var _ FlightRepository = (*PGFlightRepository)(nil)
