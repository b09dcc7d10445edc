package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email about %s: booking %s on flight %d for %d passenger(s)\n", event.Type, event.PNR, event.FlightID, event.Passengers)
	return nil
}
