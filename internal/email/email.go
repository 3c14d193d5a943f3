package email

import (
	"context"
	"fmt"

	"github.com/mlukyanov/airticket/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	fmt.Printf("notify user %d: %s for order %s, flight %d, %d seat(s)\n",
		event.UserID, event.Type, event.Reference, event.FlightID, len(event.Seats))
	return nil
}
