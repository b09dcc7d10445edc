package flights

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, q repository.FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Cities(ctx context.Context) (sources, destinations []string, err error)
	Airlines(ctx context.Context) ([]domain.Airline, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	AdjustCapacity(ctx context.Context, id int64, newTotal int) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	AuditInventory(ctx context.Context, id int64) (*InventoryAudit, error)
}

type Cache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// Ledger exposes the booking ledger's view of committed seats.
type Ledger interface {
	ActiveSeats(ctx context.Context, flightID int64) (int, error)
}

type CreateFlightInput struct {
	FlightNumber    string
	AirlineID       int64
	SourceCity      string
	DestinationCity string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	TotalSeats      int
	PriceCents      int64
	Recurrence      domain.Recurrence
	Weekdays        []int
	CreatedBy       int64
}

// InventoryAudit compares the flight's seat counter against the booking
// ledger. For one-shot flights total - available must equal the committed
// passenger count.
type InventoryAudit struct {
	FlightID       int64 `json:"flight_id"`
	TotalSeats     int   `json:"total_seats"`
	AvailableSeats int   `json:"available_seats"`
	CommittedSeats int   `json:"committed_seats"`
	Consistent     bool  `json:"consistent"`
}

type FlightService struct {
	repo   repository.FlightRepository
	ledger Ledger
	cache  Cache
}

func NewFlightService(repo repository.FlightRepository, ledger Ledger, cache Cache) *FlightService {
	return &FlightService{repo: repo, ledger: ledger, cache: cache}
}

func (s *FlightService) Search(ctx context.Context, q repository.FlightSearch) ([]domain.Flight, error) {
	key := searchKey(q)
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, key, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Cities(ctx context.Context) ([]string, []string, error) {
	return s.repo.Cities(ctx)
}

func (s *FlightService) Airlines(ctx context.Context) ([]domain.Airline, error) {
	return s.repo.Airlines(ctx)
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	f := &domain.Flight{
		FlightNumber:    strings.ToUpper(strings.TrimSpace(input.FlightNumber)),
		AirlineID:       input.AirlineID,
		SourceCity:      input.SourceCity,
		DestinationCity: input.DestinationCity,
		DepartureTime:   input.DepartureTime,
		ArrivalTime:     input.ArrivalTime,
		DurationMinutes: int(input.ArrivalTime.Sub(input.DepartureTime).Minutes()),
		TotalSeats:      input.TotalSeats,
		PriceCents:      input.PriceCents,
		Status:          domain.FlightStatusScheduled,
		Recurrence:      input.Recurrence,
		Weekdays:        input.Weekdays,
		CreatedBy:       input.CreatedBy,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return f, nil
}

func (s *FlightService) AdjustCapacity(ctx context.Context, id int64, newTotal int) (*domain.Flight, error) {
	if newTotal <= 0 {
		return nil, domain.Validationf("capacity must be a positive integer")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Recurrence != domain.RecurrenceOneShot {
		return nil, domain.Validationf("capacity adjustments apply to one-shot flights only")
	}

	updated, err := s.repo.AdjustCapacity(ctx, id, newTotal)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return updated, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

func (s *FlightService) AuditInventory(ctx context.Context, id int64) (*InventoryAudit, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	committed, err := s.ledger.ActiveSeats(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	audit := &InventoryAudit{
		FlightID:       f.ID,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		CommittedSeats: committed,
	}
	// Recurring flights never consume from the pool, so the counter is
	// consistent by construction.
	audit.Consistent = f.Recurrence != domain.RecurrenceOneShot || f.TotalSeats-f.AvailableSeats == committed
	return audit, nil
}

func validateCreate(input CreateFlightInput) error {
	if strings.TrimSpace(input.FlightNumber) == "" {
		return domain.Validationf("flight number is required")
	}
	if input.TotalSeats <= 0 {
		return domain.Validationf("total seats must be a positive integer")
	}
	if input.PriceCents < 0 {
		return domain.Validationf("price must not be negative")
	}
	// Recurring flights use the timestamps as a time-of-day template.
	if input.DepartureTime.IsZero() || input.ArrivalTime.IsZero() {
		return domain.Validationf("departure and arrival times are required")
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return domain.Validationf("arrival time must be after departure time")
	}

	switch input.Recurrence {
	case domain.RecurrenceOneShot:
		if len(input.Weekdays) > 0 {
			return domain.Validationf("weekdays are only valid for weekly flights")
		}
	case domain.RecurrenceDaily:
		if len(input.Weekdays) > 0 {
			return domain.Validationf("weekdays are only valid for weekly flights")
		}
	case domain.RecurrenceWeekly:
		if len(input.Weekdays) == 0 {
			return domain.Validationf("weekly flights require at least one weekday")
		}
		seen := make(map[int]bool, len(input.Weekdays))
		for _, d := range input.Weekdays {
			if d < 0 || d > 6 {
				return domain.Validationf("weekday %d is out of range 0-6", d)
			}
			if seen[d] {
				return domain.Validationf("weekday %d is listed twice", d)
			}
			seen[d] = true
		}
	default:
		return domain.Validationf("unknown recurrence %q", input.Recurrence)
	}
	return nil
}

func searchKey(q repository.FlightSearch) string {
	depart := ""
	if q.DepartAfter != nil {
		depart = q.DepartAfter.Format("2006-01-02")
	}
	return cache.FlightsKey(q.Source, q.Destination, depart)
}

var _ FlightUseCase = (*FlightService)(nil)
