package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services/testhelpers"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa/mocks"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// recordingNotifier collects dispatched events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *recordingNotifier) Dispatch(event domain.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Events() []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Event(nil), n.events...)
}

type VerifyPaymentServiceTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDatabase
	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
	listingRepo *postgres.ListingRepository
	userRepo    *postgres.UserRepository
	coordinator *postgres.TransactionCoordinator
	mockGateway *mocks.MockGatewayClient
	notifier    *recordingNotifier
	service     *services.VerifyPaymentService

	user    *domain.User
	listing *domain.Listing
	booking *domain.Booking
	payment *domain.Payment
}

func TestVerifyPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(VerifyPaymentServiceTestSuite))
}

func (suite *VerifyPaymentServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.paymentRepo = postgres.NewPaymentRepository(suite.testDB.DB)
	suite.bookingRepo = postgres.NewBookingRepository(suite.testDB.DB)
	suite.listingRepo = postgres.NewListingRepository(suite.testDB.DB)
	suite.userRepo = postgres.NewUserRepository(suite.testDB.DB)
	suite.coordinator = postgres.NewTransactionCoordinator(suite.testDB.DB)
}

func (suite *VerifyPaymentServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *VerifyPaymentServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
	suite.mockGateway = mocks.NewMockGatewayClient(suite.T())
	suite.notifier = &recordingNotifier{}
	suite.service = services.NewVerifyPaymentService(
		suite.paymentRepo,
		suite.coordinator,
		suite.mockGateway,
		suite.notifier,
		testLogger(),
	)

	ctx := context.Background()
	t := suite.T()
	suite.user = testhelpers.CreateTestUser(t, ctx, suite.userRepo)
	suite.listing = testhelpers.CreateTestListing(t, ctx, suite.listingRepo, suite.user.ID)
	suite.booking = testhelpers.CreateTestBooking(t, ctx, suite.bookingRepo, suite.listing, suite.user.ID)
	suite.payment = testhelpers.CreateProcessingPayment(t, ctx, suite.paymentRepo, suite.booking)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_FirstSettlement() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(suite.payment.Amount), nil).
		Once()

	result, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, result.Payment.Status)
	assert.Equal(t, domain.BookingConfirmed, result.Booking.Status)
	require.NotNil(t, result.Payment.PaidAt)
	require.NotNil(t, result.Payment.GatewayTxID)
	assert.Equal(t, "12345", *result.Payment.GatewayTxID)

	// State survived the transaction
	stored, err := suite.paymentRepo.FindByID(ctx, suite.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, stored.Status)
	require.NotNil(t, stored.PaidAt)

	events := suite.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPaymentConfirmed, events[0].Kind)
	assert.Equal(t, suite.booking.ID, events[0].BookingID)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_DuplicateSettlement() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(suite.payment.Amount), nil).
		Twice()

	first, err := suite.service.VerifyByID(ctx, suite.payment.ID)
	require.NoError(t, err)
	firstPaidAt := *first.Payment.PaidAt

	second, err := suite.service.VerifyByID(ctx, suite.payment.ID)
	require.NoError(t, err)

	assert.True(t, second.Outcome.Duplicate)
	assert.Equal(t, domain.PaymentCompleted, second.Payment.Status)
	require.NotNil(t, second.Payment.PaidAt)
	assert.True(t, firstPaidAt.Equal(*second.Payment.PaidAt), "replay must not move paid_at")

	// Exactly one confirmation, no matter how often the webhook replays
	assert.Len(t, suite.notifier.Events(), 1)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_FailedWithReason() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.FailedVerification("card_declined"), nil).
		Once()

	result, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, result.Payment.Status)
	require.NotNil(t, result.Payment.FailureReason)
	assert.Equal(t, "card_declined", *result.Payment.FailureReason)
	assert.Nil(t, result.Payment.PaidAt)

	// A declined payment leaves the booking alone
	assert.Equal(t, domain.BookingPending, result.Booking.Status)

	events := suite.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPaymentFailed, events[0].Kind)
	assert.Equal(t, "card_declined", events[0].Reason)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_FailedWithoutReason() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.FailedVerification(""), nil).
		Once()

	result, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.NoError(t, err)
	require.NotNil(t, result.Payment.FailureReason)
	assert.Equal(t, domain.FallbackFailureReason, *result.Payment.FailureReason)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_CancelledBookingStaysCancelled() {
	ctx := context.Background()
	t := suite.T()

	require.NoError(t, suite.booking.Cancel())
	require.NoError(t, suite.bookingRepo.UpdateStatus(ctx, suite.booking))

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(suite.payment.Amount), nil).
		Once()

	result, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, result.Payment.Status)
	assert.Equal(t, domain.BookingCancelled, result.Booking.Status)
	require.Len(t, result.Outcome.Anomalies, 1)
	assert.Equal(t, domain.AnomalyStaleBookingState, result.Outcome.Anomalies[0].Kind)

	stored, err := suite.bookingRepo.FindByID(ctx, suite.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, stored.Status)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_AmountMismatchProceeds() {
	ctx := context.Background()
	t := suite.T()

	wrongAmount := decimal.RequireFromString("500.00")
	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(wrongAmount), nil).
		Once()

	result, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, result.Payment.Status)
	require.Len(t, result.Outcome.Anomalies, 1)
	assert.Equal(t, domain.AnomalyAmountMismatch, result.Outcome.Anomalies[0].Kind)
	assert.True(t, result.Outcome.Anomalies[0].Got.Equal(wrongAmount))
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_GatewayErrorLeavesStateUntouched() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(nil, &chapa.GatewayError{Kind: chapa.KindUnreachable, Message: "timeout"}).
		Once()

	_, err := suite.service.VerifyByID(ctx, suite.payment.ID)

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeGatewayUnavailable, svcErr.Code)

	stored, err := suite.paymentRepo.FindByID(ctx, suite.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, stored.Status, "indeterminate verification must not change stored state")
	assert.Empty(t, suite.notifier.Events())
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_ByTxRef() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(suite.payment.Amount), nil).
		Once()

	result, err := suite.service.VerifyByTxRef(ctx, suite.payment.TxRef)

	require.NoError(t, err)
	assert.Equal(t, suite.payment.ID, result.Payment.ID)
	assert.Equal(t, domain.PaymentCompleted, result.Payment.Status)
}

func (suite *VerifyPaymentServiceTestSuite) Test_Verify_NotFound() {
	ctx := context.Background()
	t := suite.T()

	_, err := suite.service.VerifyByTxRef(ctx, "ALX-999-DEADBEEF")

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeNotFound, svcErr.Code)
}

// Test_Verify_ConcurrentSettlement races two verification passes for the
// same payment. Row locking serializes them; the loser re-reads the settled
// state and lands in the duplicate guard, so exactly one confirmation fires.
func (suite *VerifyPaymentServiceTestSuite) Test_Verify_ConcurrentSettlement() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Verify(mock.Anything, suite.payment.TxRef).
		Return(testhelpers.SuccessVerification(suite.payment.Amount), nil).
		Twice()

	var wg sync.WaitGroup
	results := make([]*services.VerifyResult, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = suite.service.VerifyByID(ctx, suite.payment.ID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var duplicates int
	for _, r := range results {
		assert.Equal(t, domain.PaymentCompleted, r.Payment.Status)
		if r.Outcome.Duplicate {
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates, "exactly one pass must observe the replay")

	events := suite.notifier.Events()
	require.Len(t, events, 1, "settlement must confirm exactly once")
	assert.Equal(t, domain.EventPaymentConfirmed, events[0].Kind)

	stored, err := suite.paymentRepo.FindByID(ctx, suite.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, stored.Status)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
