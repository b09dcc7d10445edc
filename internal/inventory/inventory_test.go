package inventory

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory BookingStore with the same serialization
// contract as the Postgres implementation: seat arithmetic happens under a
// lock together with the booking row change.
type fakeStore struct {
	mu       sync.Mutex
	seats    map[int64]*seatPool
	bookings map[int64]*domain.Booking
	nextID   int64
}

type seatPool struct {
	total     int
	available int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seats:    make(map[int64]*seatPool),
		bookings: make(map[int64]*domain.Booking),
	}
}

func (f *fakeStore) addFlight(id int64, total, available int) {
	f.seats[id] = &seatPool{total: total, available: available}
}

func (f *fakeStore) availableSeats(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[id].available
}

func (f *fakeStore) Create(_ context.Context, b *domain.Booking, _ *domain.Payment, reserveSeats bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reserveSeats {
		pool := f.seats[b.FlightID]
		if pool.available < b.Passengers {
			return domain.Capacityf("not enough seats available on flight %d", b.FlightID)
		}
		pool.available -= b.Passengers
	}
	f.nextID++
	b.ID = f.nextID
	b.BookedAt = time.Now()
	stored := *b
	f.bookings[b.ID] = &stored
	return nil
}

func (f *fakeStore) Cancel(_ context.Context, b *domain.Booking, restoreSeats bool) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.bookings[b.ID]
	if !ok {
		return nil, domain.NotFoundf("booking %d not found", b.ID)
	}
	if stored.Status == domain.BookingStatusCancelled {
		return nil, domain.Conflictf("booking %d is already cancelled", b.ID)
	}
	stored.Status = domain.BookingStatusCancelled
	stored.PaymentStatus = domain.PaymentStatusRefunded
	if restoreSeats {
		pool := f.seats[b.FlightID]
		pool.available += stored.Passengers
		if pool.available > pool.total {
			pool.available = pool.total
		}
	}
	updated := *stored
	return &updated, nil
}

func oneShotFlight(id int64, total, available int) *domain.Flight {
	return &domain.Flight{
		ID:             id,
		FlightNumber:   "AI101",
		DepartureTime:  time.Now().Add(7 * 24 * time.Hour),
		TotalSeats:     total,
		AvailableSeats: available,
		PriceCents:     450000,
		Status:         domain.FlightStatusScheduled,
		Recurrence:     domain.RecurrenceOneShot,
	}
}

func recurringFlight(id int64, rec domain.Recurrence, weekdays []int) *domain.Flight {
	return &domain.Flight{
		ID:           id,
		FlightNumber: "6E202",
		TotalSeats:   162,
		PriceCents:   320000,
		Status:       domain.FlightStatusScheduled,
		Recurrence:   rec,
		Weekdays:     weekdays,
	}
}

func reserveInput(passengers int, travelDate *time.Time) ReserveInput {
	return ReserveInput{
		UserID:     7,
		Passengers: passengers,
		TravelDate: travelDate,
		Method:     domain.PaymentMethodCreditCard,
	}
}

// nextWeekday returns the next future date falling on the given weekday.
func nextWeekday(w time.Weekday) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != w {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func timePtr(t time.Time) *time.Time { return &t }

func TestReserve_OneShot_FillsFlightThenRejects(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 180, 180)
	svc := NewService(store)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, oneShotFlight(1, 180, 180), reserveInput(180, nil))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, booking.PaymentStatus)
	assert.Equal(t, int64(180*450000), booking.TotalAmountCents)
	assert.Len(t, booking.PNR, 10)
	assert.Nil(t, booking.TravelDate)
	assert.Equal(t, 0, store.availableSeats(1))

	_, err = svc.Reserve(ctx, oneShotFlight(1, 180, 0), reserveInput(1, nil))
	assert.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindCapacity))
	assert.Equal(t, 0, store.availableSeats(1))
}

func TestReserve_ValidationErrors(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 100, 100)
	svc := NewService(store)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	testCases := []struct {
		name   string
		flight *domain.Flight
		input  ReserveInput
	}{
		{
			name:   "zero passengers",
			flight: oneShotFlight(1, 100, 100),
			input:  reserveInput(0, nil),
		},
		{
			name:   "negative passengers",
			flight: oneShotFlight(1, 100, 100),
			input:  reserveInput(-3, nil),
		},
		{
			name:   "daily flight without travel date",
			flight: recurringFlight(2, domain.RecurrenceDaily, nil),
			input:  reserveInput(2, nil),
		},
		{
			name:   "daily flight with past travel date",
			flight: recurringFlight(2, domain.RecurrenceDaily, nil),
			input:  reserveInput(2, timePtr(yesterday)),
		},
		{
			name:   "daily flight with today as travel date",
			flight: recurringFlight(2, domain.RecurrenceDaily, nil),
			input:  reserveInput(2, timePtr(time.Now())),
		},
		{
			name:   "unknown payment method",
			flight: oneShotFlight(1, 100, 100),
			input:  ReserveInput{UserID: 7, Passengers: 1, Method: "CASH"},
		},
		{
			name:   "unknown recurrence",
			flight: &domain.Flight{ID: 3, Recurrence: "MONTHLY", Status: domain.FlightStatusScheduled},
			input:  reserveInput(1, timePtr(tomorrow)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking, err := svc.Reserve(ctx, tc.flight, tc.input)
			assert.Nil(t, booking)
			assert.True(t, domain.IsKind(err, domain.KindValidation), "got %v", err)
		})
	}
	// No validation failure may touch the seat pool.
	assert.Equal(t, 100, store.availableSeats(1))
}

func TestReserve_Daily_NoSeatMutation(t *testing.T) {
	store := newFakeStore()
	store.addFlight(2, 162, 162)
	svc := NewService(store)

	tomorrow := time.Now().AddDate(0, 0, 1)
	booking, err := svc.Reserve(context.Background(), recurringFlight(2, domain.RecurrenceDaily, nil), reserveInput(5, &tomorrow))
	require.NoError(t, err)
	require.NotNil(t, booking.TravelDate)
	assert.Equal(t, int64(5*320000), booking.TotalAmountCents)
	assert.Equal(t, 162, store.availableSeats(2))
}

func TestReserve_Weekly_WeekdayMembership(t *testing.T) {
	store := newFakeStore()
	store.addFlight(3, 162, 162)
	svc := NewService(store)
	ctx := context.Background()

	// Operates Monday, Wednesday, Friday.
	flight := recurringFlight(3, domain.RecurrenceWeekly, []int{0, 2, 4})

	tuesday := nextWeekday(time.Tuesday)
	_, err := svc.Reserve(ctx, flight, reserveInput(2, &tuesday))
	assert.True(t, domain.IsKind(err, domain.KindValidation), "got %v", err)

	wednesday := nextWeekday(time.Wednesday)
	booking, err := svc.Reserve(ctx, flight, reserveInput(2, &wednesday))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 162, store.availableSeats(3))
}

func TestReserve_InactiveFlightConflicts(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	for _, status := range []domain.FlightStatus{domain.FlightStatusCancelled, domain.FlightStatusCompleted} {
		flight := oneShotFlight(1, 100, 100)
		flight.Status = status
		_, err := svc.Reserve(ctx, flight, reserveInput(1, nil))
		assert.True(t, domain.IsKind(err, domain.KindConflict), "status %s: got %v", status, err)
	}
}

func TestReleaseRestoresSeats(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 180, 180)
	svc := NewService(store)
	ctx := context.Background()

	flight := oneShotFlight(1, 180, 180)
	booking, err := svc.Reserve(ctx, flight, reserveInput(4, nil))
	require.NoError(t, err)
	assert.Equal(t, 176, store.availableSeats(1))

	released, err := svc.Release(ctx, booking, flight)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, released.Status)
	assert.Equal(t, domain.PaymentStatusRefunded, released.PaymentStatus)
	assert.Equal(t, 180, store.availableSeats(1))
}

func TestRelease_SecondCallFailsWithoutDoubleCredit(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 180, 180)
	svc := NewService(store)
	ctx := context.Background()

	flight := oneShotFlight(1, 180, 180)
	booking, err := svc.Reserve(ctx, flight, reserveInput(4, nil))
	require.NoError(t, err)

	_, err = svc.Release(ctx, booking, flight)
	require.NoError(t, err)
	assert.Equal(t, 180, store.availableSeats(1))

	// The caller may still hold the stale, pre-cancel booking value.
	_, err = svc.Release(ctx, booking, flight)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "got %v", err)
	assert.Equal(t, 180, store.availableSeats(1))
}

func TestRelease_RecurringNoSeatMutation(t *testing.T) {
	store := newFakeStore()
	store.addFlight(2, 162, 150)
	svc := NewService(store)
	ctx := context.Background()

	flight := recurringFlight(2, domain.RecurrenceDaily, nil)
	nextWeek := time.Now().AddDate(0, 0, 7)
	booking, err := svc.Reserve(ctx, flight, reserveInput(3, &nextWeek))
	require.NoError(t, err)

	_, err = svc.Release(ctx, booking, flight)
	require.NoError(t, err)
	assert.Equal(t, 150, store.availableSeats(2))
}

func TestRelease_OnOrAfterTravelDateConflicts(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 180, 176)
	svc := NewService(store)
	ctx := context.Background()

	// Departure later today: cancellation is only allowed strictly before
	// the travel day.
	flight := oneShotFlight(1, 180, 176)
	flight.DepartureTime = time.Now()
	booking := &domain.Booking{ID: 99, FlightID: 1, Passengers: 4, Status: domain.BookingStatusConfirmed}
	store.bookings[99] = booking

	_, err := svc.Release(ctx, booking, flight)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "got %v", err)
	assert.Equal(t, 176, store.availableSeats(1))

	// One day before departure it succeeds and restores the seats.
	flight.DepartureTime = time.Now().AddDate(0, 0, 1)
	released, err := svc.Release(ctx, booking, flight)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, released.Status)
	assert.Equal(t, 180, store.availableSeats(1))
}

func TestConcurrentReserve_LastSeat(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 180, 1)
	svc := NewService(store)
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(ctx, oneShotFlight(1, 180, 1), reserveInput(1, nil))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, capacityErrs int
	for err := range errs {
		if err == nil {
			successes++
		} else if domain.IsKind(err, domain.KindCapacity) {
			capacityErrs++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, capacityErrs)
	assert.Equal(t, 0, store.availableSeats(1))
}

func TestConcurrentReserveRelease_InvariantHolds(t *testing.T) {
	store := newFakeStore()
	store.addFlight(1, 20, 20)
	svc := NewService(store)
	ctx := context.Background()

	flight := oneShotFlight(1, 20, 20)
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, err := svc.Reserve(ctx, flight, reserveInput(2, nil))
			if err != nil {
				return
			}
			if booking.ID%2 == 0 {
				_, _ = svc.Release(ctx, booking, flight)
			}
		}()
	}
	wg.Wait()

	available := store.availableSeats(1)
	assert.GreaterOrEqual(t, available, 0)
	assert.LessOrEqual(t, available, 20)
}

func TestNewPNR(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		pnr, err := NewPNR()
		require.NoError(t, err)
		assert.Len(t, pnr, 10)
		assert.Equal(t, pnr, strings.ToUpper(pnr))
		assert.False(t, seen[pnr], "duplicate PNR %s", pnr)
		seen[pnr] = true
	}
}
