// Package inventory is the single authority over flight seat counts.
// Reservations and releases go through here and nowhere else; the
// persistence layer applies the seat arithmetic as atomic conditional
// updates but never initiates it on its own.
package inventory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
)

// BookingStore persists reservation outcomes. Implementations must apply
// the seat decrement of Create and the increment of Cancel atomically with
// the booking row change, serialized per flight ("decrement by N where
// available >= N, fail on zero rows").
type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking, p *domain.Payment, reserveSeats bool) error
	Cancel(ctx context.Context, b *domain.Booking, restoreSeats bool) (*domain.Booking, error)
}

type Service struct {
	bookings BookingStore
}

func NewService(bookings BookingStore) *Service {
	return &Service{bookings: bookings}
}

type ReserveInput struct {
	UserID     int64
	Passengers int
	TravelDate *time.Time
	Method     domain.PaymentMethod
}

// Reserve books seats on a flight. One-shot flights consume from the finite
// seat pool; daily and weekly flights carry unlimited effective inventory
// and only validate the requested travel date.
func (s *Service) Reserve(ctx context.Context, flight *domain.Flight, in ReserveInput) (*domain.Booking, error) {
	if in.Passengers <= 0 {
		return nil, domain.Validationf("passenger count must be a positive integer")
	}
	if !validPaymentMethod(in.Method) {
		return nil, domain.Validationf("unknown payment method %q", in.Method)
	}
	if flight.Status == domain.FlightStatusCancelled || flight.Status == domain.FlightStatusCompleted {
		return nil, domain.Conflictf("flight %s is %s and does not accept reservations", flight.FlightNumber, strings.ToLower(string(flight.Status)))
	}

	var travelDate *time.Time
	switch flight.Recurrence {
	case domain.RecurrenceOneShot:
		// Capacity is checked atomically by the store below.
	case domain.RecurrenceDaily:
		if err := validateTravelDate(in.TravelDate); err != nil {
			return nil, err
		}
		travelDate = in.TravelDate
	case domain.RecurrenceWeekly:
		if err := validateTravelDate(in.TravelDate); err != nil {
			return nil, err
		}
		if !flight.OperatesOn(in.TravelDate.Weekday()) {
			return nil, domain.Validationf("flight %s does not operate on %s", flight.FlightNumber, in.TravelDate.Weekday())
		}
		travelDate = in.TravelDate
	default:
		return nil, domain.Validationf("unknown recurrence %q", flight.Recurrence)
	}

	pnr, err := NewPNR()
	if err != nil {
		return nil, err
	}

	total := flight.PriceCents * int64(in.Passengers)
	booking := &domain.Booking{
		UserID:           in.UserID,
		FlightID:         flight.ID,
		PNR:              pnr,
		Passengers:       in.Passengers,
		TravelDate:       travelDate,
		TotalAmountCents: total,
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusCompleted,
	}
	payment := &domain.Payment{
		AmountCents:   total,
		Method:        in.Method,
		TransactionID: "TXN-" + uuid.NewString(),
		Status:        domain.PaymentStatusCompleted,
	}

	if err := s.bookings.Create(ctx, booking, payment, flight.Recurrence == domain.RecurrenceOneShot); err != nil {
		return nil, err
	}
	return booking, nil
}

// Release cancels a booking and, for one-shot flights, credits its seats
// back. A second release of the same booking fails with a conflict and
// leaves the seat count untouched.
func (s *Service) Release(ctx context.Context, b *domain.Booking, flight *domain.Flight) (*domain.Booking, error) {
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.Conflictf("booking %d is already cancelled", b.ID)
	}
	travel := b.EffectiveTravelDate(flight.DepartureTime)
	if !dateOf(travel).After(dateOf(time.Now())) {
		return nil, domain.Conflictf("cannot cancel a booking on or after its travel date")
	}
	return s.bookings.Cancel(ctx, b, flight.Recurrence == domain.RecurrenceOneShot)
}

// NewPNR generates a shareable 10-character reference code.
func NewPNR() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func validateTravelDate(d *time.Time) error {
	if d == nil {
		return domain.Validationf("travel date is required for recurring flights")
	}
	if !dateOf(*d).After(dateOf(time.Now())) {
		return domain.Validationf("travel date must be in the future")
	}
	return nil
}

func validPaymentMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.PaymentMethodCreditCard, domain.PaymentMethodDebitCard, domain.PaymentMethodUPI, domain.PaymentMethodNetBanking:
		return true
	}
	return false
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
