package domain

import "time"

type Recurrence string

const (
	RecurrenceOneShot Recurrence = "ONE_SHOT"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusCompleted FlightStatus = "COMPLETED"
)

type Flight struct {
	ID              int64
	FlightNumber    string
	AirlineID       int64
	SourceCity      string
	DestinationCity string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	TotalSeats      int
	AvailableSeats  int
	PriceCents      int64
	Status          FlightStatus
	Recurrence      Recurrence
	// Weekdays holds the operating days for weekly flights, numbered
	// 0=Monday through 6=Sunday. Empty for one-shot and daily flights.
	Weekdays  []int
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRecurring reports whether the flight is booked against a caller-chosen
// travel date instead of a fixed departure.
func (f *Flight) IsRecurring() bool {
	return f.Recurrence == RecurrenceDaily || f.Recurrence == RecurrenceWeekly
}

// OperatesOn reports whether a weekly flight runs on the given calendar day.
// Daily flights operate every day.
func (f *Flight) OperatesOn(day time.Weekday) bool {
	if f.Recurrence != RecurrenceWeekly {
		return true
	}
	for _, wd := range f.Weekdays {
		if wd == MondayBasedWeekday(day) {
			return true
		}
	}
	return false
}

// MondayBasedWeekday converts Go's Sunday-based weekday to the 0=Monday
// numbering used by the weekdays field.
func MondayBasedWeekday(day time.Weekday) int {
	return (int(day) + 6) % 7
}

type Airline struct {
	ID            int64
	Name          string
	Code          string
	ContactNumber string
	Email         string
	Active        bool
}
