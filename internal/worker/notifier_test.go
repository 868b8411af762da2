package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services/testhelpers"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeMailer records sent messages and can be told to fail.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []worker.Message
	failures int
}

func (m *fakeMailer) Send(ctx context.Context, msg worker.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) Sent() []worker.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]worker.Message(nil), m.sent...)
}

type NotifierTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDatabase
	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
	listingRepo *postgres.ListingRepository
	userRepo    *postgres.UserRepository

	user    *domain.User
	listing *domain.Listing
	booking *domain.Booking
	payment *domain.Payment
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierTestSuite))
}

func (suite *NotifierTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.paymentRepo = postgres.NewPaymentRepository(suite.testDB.DB)
	suite.bookingRepo = postgres.NewBookingRepository(suite.testDB.DB)
	suite.listingRepo = postgres.NewListingRepository(suite.testDB.DB)
	suite.userRepo = postgres.NewUserRepository(suite.testDB.DB)
}

func (suite *NotifierTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *NotifierTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())

	ctx := context.Background()
	t := suite.T()
	suite.user = testhelpers.CreateTestUser(t, ctx, suite.userRepo)
	suite.listing = testhelpers.CreateTestListing(t, ctx, suite.listingRepo, suite.user.ID)
	suite.booking = testhelpers.CreateTestBooking(t, ctx, suite.bookingRepo, suite.listing, suite.user.ID)
	suite.payment = testhelpers.CreateProcessingPayment(t, ctx, suite.paymentRepo, suite.booking)
}

func (suite *NotifierTestSuite) newNotifier(mailer worker.Mailer, queueSize int) *worker.Notifier {
	return worker.NewNotifier(
		config.NotifierConfig{Workers: 2, QueueSize: queueSize, MaxRetries: 2, BaseDelay: 0},
		suite.paymentRepo,
		suite.bookingRepo,
		suite.listingRepo,
		suite.userRepo,
		mailer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func (suite *NotifierTestSuite) Test_Dispatch_DeliversConfirmationEmail() {
	t := suite.T()
	mailer := &fakeMailer{}
	notifier := suite.newNotifier(mailer, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	require.NoError(t, notifier.Dispatch(domain.Event{
		Kind:      domain.EventPaymentConfirmed,
		PaymentID: suite.payment.ID,
		BookingID: suite.booking.ID,
	}))

	waitFor(t, func() bool { return len(mailer.Sent()) == 1 })

	msg := mailer.Sent()[0]
	assert.Equal(t, suite.user.Email, msg.To)
	assert.Contains(t, msg.Subject, "Payment Confirmed")
	assert.Contains(t, msg.Body, suite.payment.TxRef)
	assert.Contains(t, msg.Body, suite.listing.Title)
}

func (suite *NotifierTestSuite) Test_Dispatch_FailureEmailCarriesReason() {
	t := suite.T()
	mailer := &fakeMailer{}
	notifier := suite.newNotifier(mailer, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	require.NoError(t, notifier.Dispatch(domain.Event{
		Kind:      domain.EventPaymentFailed,
		PaymentID: suite.payment.ID,
		BookingID: suite.booking.ID,
		Reason:    "insufficient funds",
	}))

	waitFor(t, func() bool { return len(mailer.Sent()) == 1 })
	assert.Contains(t, mailer.Sent()[0].Body, "insufficient funds")
}

func (suite *NotifierTestSuite) Test_Dispatch_RetriesTransientSendFailures() {
	t := suite.T()
	mailer := &fakeMailer{failures: 2}
	notifier := suite.newNotifier(mailer, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	require.NoError(t, notifier.Dispatch(domain.Event{
		Kind:      domain.EventBookingAwaitingPayment,
		BookingID: suite.booking.ID,
	}))

	waitFor(t, func() bool { return len(mailer.Sent()) == 1 })
	assert.Contains(t, mailer.Sent()[0].Subject, "Booking Received")
}

func (suite *NotifierTestSuite) Test_Dispatch_FullQueueReturnsError() {
	t := suite.T()
	mailer := &fakeMailer{}
	notifier := suite.newNotifier(mailer, 1)
	// Workers never started, so the queue fills up

	require.NoError(t, notifier.Dispatch(domain.Event{
		Kind:      domain.EventBookingAwaitingPayment,
		BookingID: suite.booking.ID,
	}))

	err := notifier.Dispatch(domain.Event{
		Kind:      domain.EventBookingAwaitingPayment,
		BookingID: suite.booking.ID,
	})
	assert.ErrorIs(t, err, worker.ErrQueueFull)
}
