package email

import (
	"context"
	"fmt"
	"log"

	"flightbooking/internal/kafka"
)

// Sender renders and delivers booking emails. Delivery is log-backed; the
// rest of the system only sees Send's error and never blocks on it.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	var subject, body string
	switch event.Type {
	case kafka.EventBookingConfirmed:
		subject = fmt.Sprintf("Booking confirmed - %s (%s)", event.FlightNumber, event.PNR)
		body = fmt.Sprintf("Your booking %s for flight %s %s-%s departing %s is confirmed. %d passenger(s), total %d.",
			event.BookingID, event.FlightNumber, event.From, event.To,
			event.Departure.Format("02 Jan 2006 15:04"), event.Passengers, event.TotalAmount)
	case kafka.EventBookingCancelled:
		subject = fmt.Sprintf("Booking cancelled - %s (%s)", event.FlightNumber, event.PNR)
		body = fmt.Sprintf("Your booking %s has been cancelled. A refund of %d is being processed.",
			event.BookingID, event.RefundAmount)
	default:
		log.Printf("skipping unknown event type %q for booking %s", event.Type, event.BookingID)
		return nil
	}

	log.Printf("send email to=%s subject=%q body=%q", event.Email, subject, body)
	return nil
}
