package booking

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/inventory"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type BookingUseCase interface {
	Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	GetByPNR(ctx context.Context, userID int64, pnr string) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	Cancel(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	CompleteDeparted(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID      int64
	Passengers    int
	TravelDate    *time.Time
	PaymentMethod domain.PaymentMethod
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	inventory          *inventory.Service
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		inventory:    inventory.NewService(bookings),
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	booking, err := s.inventory.Reserve(ctx, flight, inventory.ReserveInput{
		UserID:     userID,
		Passengers: input.Passengers,
		TravelDate: input.TravelDate,
		Method:     input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.PNR, err)
	}
	return booking, nil
}

func (s *BookingService) GetByPNR(ctx context.Context, userID int64, pnr string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.NotFoundf("booking %s not found", pnr)
	}
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		// Owned by someone else: indistinguishable from missing.
		return nil, domain.NotFoundf("booking %d not found", bookingID)
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.inventory.Release(ctx, booking, flight)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "booking_cancelled", cancelled); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for booking %s: %v", cancelled.PNR, err)
	}
	return cancelled, nil
}

// CompleteDeparted closes out active bookings whose travel day has passed.
// Invoked periodically by the worker.
func (s *BookingService) CompleteDeparted(ctx context.Context) ([]domain.Booking, error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completed, err := s.bookings.CompleteDeparted(ctx, startOfToday)
	if err != nil {
		return nil, err
	}
	for i := range completed {
		if err := s.publish(ctx, "booking_completed", &completed[i]); err != nil {
			log.Printf("WARNING: failed to publish booking_completed event for booking %s: %v", completed[i].PNR, err)
		}
	}
	return completed, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		PNR:         booking.PNR,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		FlightID:    booking.FlightID,
		Passengers:  booking.Passengers,
		TravelDate:  booking.TravelDate,
		AmountCents: booking.TotalAmountCents,
		Status:      string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
