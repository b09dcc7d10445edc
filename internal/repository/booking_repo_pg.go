package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create inserts the booking and its payment row. When reserveSeats is
	// set the flight's seat counter is decremented in the same transaction,
	// conditionally on enough seats remaining.
	Create(ctx context.Context, b *domain.Booking, p *domain.Payment, reserveSeats bool) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	// Cancel flips the booking to cancelled/refunded and, when restoreSeats
	// is set, credits the passenger count back to the flight in the same
	// transaction. A booking that is already cancelled yields a conflict.
	Cancel(ctx context.Context, b *domain.Booking, restoreSeats bool) (*domain.Booking, error)
	// ActiveSeats sums the passenger counts of confirmed and pending
	// bookings on a flight. It is the ledger-side view of committed seats.
	ActiveSeats(ctx context.Context, flightID int64) (int, error)
	// CompleteDeparted marks active bookings whose effective travel date is
	// before the given day as completed and returns them.
	CompleteDeparted(ctx context.Context, day time.Time) ([]domain.Booking, error)
}

const bookingColumns = `booking_id, user_id, flight_id, pnr_number, passengers_count, travel_date, total_amount_cents, booking_status, payment_status, booked_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking, p *domain.Payment, reserveSeats bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if reserveSeats {
		cmd, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE flight_id=$1 AND available_seats >= $2`, b.FlightID, b.Passengers)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.Capacityf("not enough seats available on flight %d", b.FlightID)
		}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, pnr_number, passengers_count, travel_date, total_amount_cents, booking_status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_id, booked_at, updated_at`,
		b.UserID, b.FlightID, b.PNR, b.Passengers, b.TravelDate, b.TotalAmountCents, b.Status, b.PaymentStatus).
		Scan(&b.ID, &b.BookedAt, &b.UpdatedAt); err != nil {
		return err
	}

	p.BookingID = b.ID
	if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, payment_amount_cents, payment_method, transaction_id, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id, payment_date`,
		p.BookingID, p.AmountCents, p.Method, p.TransactionID, p.Status).
		Scan(&p.ID, &p.PaidAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("booking %d not found", id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr_number=$1`, pnr)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("booking %s not found", pnr)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY booked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY booked_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, b *domain.Booking, restoreSeats bool) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The status guard makes a concurrent double-cancel lose cleanly instead
	// of crediting seats twice.
	row := tx.QueryRow(ctx, `UPDATE bookings SET booking_status=$2, payment_status=$3, updated_at=now()
		WHERE booking_id=$1 AND booking_status <> $2
		RETURNING `+bookingColumns,
		b.ID, domain.BookingStatusCancelled, domain.PaymentStatusRefunded)
	updated, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Conflictf("booking %d is already cancelled", b.ID)
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE payments SET payment_status=$2 WHERE booking_id=$1`, b.ID, domain.PaymentStatusRefunded); err != nil {
		return nil, err
	}

	if restoreSeats {
		if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = LEAST(total_seats, available_seats + $2), updated_at = now() WHERE flight_id=$1`, b.FlightID, b.Passengers); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PGBookingRepository) ActiveSeats(ctx context.Context, flightID int64) (int, error) {
	var seats int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(passengers_count), 0) FROM bookings WHERE flight_id=$1 AND booking_status IN ('CONFIRMED', 'PENDING')`, flightID).Scan(&seats)
	return seats, err
}

func (r *PGBookingRepository) CompleteDeparted(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings b SET booking_status=$1, updated_at=now()
		FROM flights f
		WHERE b.flight_id = f.flight_id
		  AND b.booking_status IN ('CONFIRMED', 'PENDING')
		  AND COALESCE(b.travel_date, f.departure_time) < $2
		RETURNING b.booking_id, b.user_id, b.flight_id, b.pnr_number, b.passengers_count, b.travel_date, b.total_amount_cents, b.booking_status, b.payment_status, b.booked_at, b.updated_at`,
		domain.BookingStatusCompleted, day)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.PNR, &b.Passengers, &b.TravelDate, &b.TotalAmountCents, &b.Status, &b.PaymentStatus, &b.BookedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
