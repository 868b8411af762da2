package services_test

import (
	"context"
	"testing"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services/testhelpers"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa/mocks"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InitiatePaymentServiceTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDatabase
	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
	listingRepo *postgres.ListingRepository
	userRepo    *postgres.UserRepository
	mockGateway *mocks.MockGatewayClient
	service     *services.InitiatePaymentService

	user    *domain.User
	listing *domain.Listing
	booking *domain.Booking
}

func TestInitiatePaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(InitiatePaymentServiceTestSuite))
}

func (suite *InitiatePaymentServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.paymentRepo = postgres.NewPaymentRepository(suite.testDB.DB)
	suite.bookingRepo = postgres.NewBookingRepository(suite.testDB.DB)
	suite.listingRepo = postgres.NewListingRepository(suite.testDB.DB)
	suite.userRepo = postgres.NewUserRepository(suite.testDB.DB)
}

func (suite *InitiatePaymentServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *InitiatePaymentServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
	suite.mockGateway = mocks.NewMockGatewayClient(suite.T())
	suite.service = services.NewInitiatePaymentService(
		suite.paymentRepo,
		suite.bookingRepo,
		suite.userRepo,
		suite.listingRepo,
		suite.mockGateway,
		config.ChapaConfig{
			CallbackURL: "https://travel.example.com/api/v1/payments/webhook",
			ReturnURL:   "https://travel.example.com/bookings",
		},
		testLogger(),
	)

	ctx := context.Background()
	t := suite.T()
	suite.user = testhelpers.CreateTestUser(t, ctx, suite.userRepo)
	suite.listing = testhelpers.CreateTestListing(t, ctx, suite.listingRepo, suite.user.ID)
	suite.booking = testhelpers.CreateTestBooking(t, ctx, suite.bookingRepo, suite.listing, suite.user.ID)
}

func (suite *InitiatePaymentServiceTestSuite) cmd() services.InitiatePaymentCommand {
	return services.InitiatePaymentCommand{
		BookingID: suite.booking.ID,
		UserID:    suite.user.ID,
	}
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_CreatesPaymentAndCheckout() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Initialize(mock.Anything, mock.MatchedBy(func(req application.InitializeRequest) bool {
			return req.Email == suite.user.Email && req.Amount.Equal(suite.booking.TotalPrice)
		})).
		Return(&application.InitializeResponse{CheckoutURL: "https://checkout.chapa.co/abc"}, nil).
		Once()

	payment, err := suite.service.Initiate(ctx, suite.cmd())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, payment.Status)
	require.NotNil(t, payment.CheckoutURL)
	assert.Equal(t, "https://checkout.chapa.co/abc", *payment.CheckoutURL)
	assert.True(t, payment.Amount.Equal(suite.booking.TotalPrice))
	assert.Regexp(t, `^ALX-\d+-[0-9A-F]{8}$`, payment.TxRef)

	stored, err := suite.paymentRepo.FindByBookingID(ctx, suite.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, stored.Status)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_RepeatReturnsExistingCheckout() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Initialize(mock.Anything, mock.Anything).
		Return(&application.InitializeResponse{CheckoutURL: "https://checkout.chapa.co/abc"}, nil).
		Once()

	first, err := suite.service.Initiate(ctx, suite.cmd())
	require.NoError(t, err)

	// Second call must not touch the gateway again
	second, err := suite.service.Initiate(ctx, suite.cmd())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TxRef, second.TxRef)
	assert.Equal(t, *first.CheckoutURL, *second.CheckoutURL)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_RetryAfterFailureGetsFreshTxRef() {
	ctx := context.Background()
	t := suite.T()

	payment := testhelpers.CreateProcessingPayment(t, ctx, suite.paymentRepo, suite.booking)
	oldTxRef := payment.TxRef

	// Simulate a declined verification
	payment.Status = domain.PaymentFailed
	require.NoError(t, suite.paymentRepo.UpdateFromReconciliation(ctx, payment, domain.PaymentProcessing))

	suite.mockGateway.EXPECT().
		Initialize(mock.Anything, mock.Anything).
		Return(&application.InitializeResponse{CheckoutURL: "https://checkout.chapa.co/retry"}, nil).
		Once()

	retried, err := suite.service.Initiate(ctx, suite.cmd())

	require.NoError(t, err)
	assert.Equal(t, payment.ID, retried.ID)
	assert.Equal(t, domain.PaymentProcessing, retried.Status)
	assert.NotEqual(t, oldTxRef, retried.TxRef, "retry must use a fresh reference")
	assert.Nil(t, retried.FailureReason)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_CompletedPaymentRejected() {
	ctx := context.Background()
	t := suite.T()

	payment := testhelpers.CreateProcessingPayment(t, ctx, suite.paymentRepo, suite.booking)
	payment.Status = domain.PaymentCompleted
	require.NoError(t, suite.paymentRepo.UpdateFromReconciliation(ctx, payment, domain.PaymentProcessing))

	_, err := suite.service.Initiate(ctx, suite.cmd())

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeInvalidState, svcErr.Code)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_CancelledBookingRejected() {
	ctx := context.Background()
	t := suite.T()

	require.NoError(t, suite.booking.Cancel())
	require.NoError(t, suite.bookingRepo.UpdateStatus(ctx, suite.booking))

	_, err := suite.service.Initiate(ctx, suite.cmd())

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeInvalidState, svcErr.Code)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_OtherUsersBookingHidden() {
	ctx := context.Background()
	t := suite.T()

	other := testhelpers.CreateTestUser(t, ctx, suite.userRepo)

	_, err := suite.service.Initiate(ctx, services.InitiatePaymentCommand{
		BookingID: suite.booking.ID,
		UserID:    other.ID,
	})

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeNotFound, svcErr.Code)
}

func (suite *InitiatePaymentServiceTestSuite) Test_Initiate_GatewayRejectionLeavesPaymentPending() {
	ctx := context.Background()
	t := suite.T()

	suite.mockGateway.EXPECT().
		Initialize(mock.Anything, mock.Anything).
		Return(nil, &chapa.GatewayError{Kind: chapa.KindInvalidRequest, Message: "invalid currency", StatusCode: 400}).
		Once()

	_, err := suite.service.Initiate(ctx, suite.cmd())

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeGatewayRejected, svcErr.Code)

	// The pending payment row stays for the next attempt
	stored, err := suite.paymentRepo.FindByBookingID(ctx, suite.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
	assert.Nil(t, stored.CheckoutURL)
}
