package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
)

// Booking is one row of the booking ledger. Rows are never deleted;
// cancellation flips status and payment status in place.
type Booking struct {
	ID         int64
	UserID     int64
	FlightID   int64
	PNR        string
	Passengers int
	// TravelDate is the calendar date the passenger flies. Set for
	// bookings on recurring flights, nil for one-shot flights.
	TravelDate       *time.Time
	TotalAmountCents int64
	Status           BookingStatus
	PaymentStatus    PaymentStatus
	BookedAt         time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the booking still consumes a seat effect.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPending
}

// EffectiveTravelDate is the date the passenger actually flies: the chosen
// travel date for recurring flights, the flight's departure otherwise.
func (b *Booking) EffectiveTravelDate(flightDeparture time.Time) time.Time {
	if b.TravelDate != nil {
		return *b.TravelDate
	}
	return flightDeparture
}

type Payment struct {
	ID            int64
	BookingID     int64
	AmountCents   int64
	Method        PaymentMethod
	TransactionID string
	Status        PaymentStatus
	PaidAt        time.Time
}
