package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered messages. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var ErrQueueFull = errors.New("notification queue is full")

// Notifier delivers booking and payment emails in the background. Dispatch
// never blocks: when the queue is full the event is dropped and the caller
// told, because an email is never worth stalling a payment flow for.
type Notifier struct {
	queue      chan domain.Event
	workers    int
	maxRetries int
	baseDelay  time.Duration

	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
	listingRepo *postgres.ListingRepository
	userRepo    *postgres.UserRepository
	mailer      Mailer
	logger      *slog.Logger

	wg sync.WaitGroup
}

func NewNotifier(
	cfg config.NotifierConfig,
	paymentRepo *postgres.PaymentRepository,
	bookingRepo *postgres.BookingRepository,
	listingRepo *postgres.ListingRepository,
	userRepo *postgres.UserRepository,
	mailer Mailer,
	logger *slog.Logger,
) *Notifier {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 64
	}

	return &Notifier{
		queue:       make(chan domain.Event, queueSize),
		workers:     workers,
		maxRetries:  int(cfg.MaxRetries),
		baseDelay:   time.Duration(cfg.BaseDelay) * time.Second,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		logger:      logger,
	}
}

// Dispatch queues an event for delivery.
func (n *Notifier) Dispatch(event domain.Event) error {
	select {
	case n.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the delivery workers. They drain the queue until ctx is
// cancelled, then exit; Wait blocks until the last one is done.
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info("notifier started", "workers", n.workers, "queue_size", cap(n.queue))

	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case event := <-n.queue:
					n.deliver(ctx, event)
				}
			}
		}()
	}
}

func (n *Notifier) Wait() {
	n.wg.Wait()
	n.logger.Info("notifier stopped")
}

func (n *Notifier) deliver(ctx context.Context, event domain.Event) {
	msg, err := n.render(ctx, event)
	if err != nil {
		n.logger.Error("failed to render notification",
			"event", event.Kind,
			"booking_id", event.BookingID,
			"error", err)
		return
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(n.baseDelay * time.Duration(1<<(attempt-1))):
			}
		}

		if lastErr = n.mailer.Send(ctx, *msg); lastErr == nil {
			n.logger.Info("notification delivered",
				"event", event.Kind,
				"booking_id", event.BookingID,
				"to", msg.To)
			return
		}
	}

	n.logger.Error("notification delivery failed",
		"event", event.Kind,
		"booking_id", event.BookingID,
		"error", lastErr)
}

func (n *Notifier) render(ctx context.Context, event domain.Event) (*Message, error) {
	booking, err := n.bookingRepo.FindByID(ctx, event.BookingID)
	if err != nil {
		return nil, err
	}
	user, err := n.userRepo.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, err
	}
	listing, err := n.listingRepo.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}

	msg := &Message{To: user.Email}
	name := user.DisplayName()
	stay := fmt.Sprintf("%s to %s (%d nights)",
		booking.CheckInDate.Format("Jan 2, 2006"),
		booking.CheckOutDate.Format("Jan 2, 2006"),
		booking.DurationDays())

	switch event.Kind {
	case domain.EventBookingAwaitingPayment:
		msg.Subject = fmt.Sprintf("Booking Received - %s", listing.Title)
		msg.Body = fmt.Sprintf(
			"Dear %s,\n\nYour booking for %s has been received and is awaiting payment.\n\nStay: %s\nGuests: %d\nTotal: %s %s\n\nPlease complete your payment to confirm the reservation.\n\nBest regards,\nALX Travel Team",
			name, listing.Title, stay, booking.NumGuests, booking.TotalPrice.StringFixed(2), "ETB")

	case domain.EventPaymentConfirmed:
		payment, err := n.paymentRepo.FindByID(ctx, event.PaymentID)
		if err != nil {
			return nil, err
		}
		msg.Subject = fmt.Sprintf("Payment Confirmed - %s", listing.Title)
		msg.Body = fmt.Sprintf(
			"Dear %s,\n\nYour payment of %s %s for %s has been confirmed. Your booking is now confirmed.\n\nStay: %s\nTransaction reference: %s\n\nWe look forward to hosting you!\n\nBest regards,\nALX Travel Team",
			name, payment.Amount.StringFixed(2), payment.Currency, listing.Title, stay, payment.TxRef)

	case domain.EventPaymentFailed:
		reason := event.Reason
		if reason == "" {
			reason = domain.FallbackFailureReason
		}
		msg.Subject = fmt.Sprintf("Payment Failed - %s", listing.Title)
		msg.Body = fmt.Sprintf(
			"Dear %s,\n\nUnfortunately your payment for %s could not be processed.\n\nReason: %s\n\nYour booking is still held. You can retry the payment from your bookings page.\n\nBest regards,\nALX Travel Team",
			name, listing.Title, reason)

	default:
		return nil, fmt.Errorf("unknown notification event: %s", event.Kind)
	}

	return msg, nil
}
