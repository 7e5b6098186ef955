package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/skota27/bus_booking/internal/core/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier sends the booking-confirmed email. Settlement treats delivery as
// best effort; a failed send is logged by the caller, never retried here.
type Notifier struct {
	from   string
	client *gomail.Client
}

func NewNotifier(cfg Config) (*Notifier, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Notifier{from: cfg.From, client: client}, nil
}

func (n *Notifier) BookingConfirmed(ctx context.Context, booking *domain.Booking, route *domain.BusRoute) error {
	msg := gomail.NewMsg()

	if err := msg.From(n.from); err != nil {
		return err
	}

	if err := msg.To(booking.PassengerEmail); err != nil {
		return err
	}

	msg.Subject(fmt.Sprintf("Booking confirmed: %s to %s", route.Origin, route.Destination))

	body := fmt.Sprintf(
		"Dear %s,\n\nYour seat on %s (%s to %s) departing %s is confirmed.\n\nTransaction ID: %s\nAmount paid: %.2f\n\nHave a safe trip!\n",
		booking.PassengerName,
		route.Name,
		route.Origin,
		route.Destination,
		route.DepartsAt.Format("02 Jan 2006 15:04"),
		booking.TransactionID,
		booking.Amount,
	)

	msg.SetBodyString(gomail.TypeTextPlain, body)

	return n.client.DialAndSendWithContext(ctx, msg)
}
