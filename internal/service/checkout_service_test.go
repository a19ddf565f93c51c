package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
	"github.com/RoyceAzure/lab/eventro/internal/infra/payment"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func validPayment() PaymentDetails {
	return PaymentDetails{
		CardholderName: "Sarah Johnson",
		Email:          "sarah@example.com",
		CardNumber:     "4242 4242 4242 4242",
		Expiry:         "12/28",
		CVC:            "123",
		AcceptTerms:    true,
	}
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	ctx       context.Context
	cartRepo  *session_repo.CartRepo
	orderRepo *session_repo.LastOrderRepo
	carts     *CartService
	gateway   *payment.SimulatedGateway
	publisher *recordingPublisher
	service   *CheckoutService
}

func (suite *CheckoutServiceTestSuite) SetupSuite() {
	suite.mr = miniredis.RunT(suite.T())
	suite.ctx = context.Background()
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.mr.FlushAll()
	rdb := redis.NewClient(&redis.Options{Addr: suite.mr.Addr()})
	store := cache.NewRedisStore(rdb, testPrefix)
	suite.cartRepo = session_repo.NewCartRepo(store, 0)
	suite.orderRepo = session_repo.NewLastOrderRepo(store, 0)
	suite.carts = NewCartService(suite.cartRepo, nil, zerolog.Nop())
	suite.gateway = payment.NewSimulatedGateway(payment.WithLatency(0))
	suite.publisher = &recordingPublisher{}
	suite.service = NewCheckoutService(suite.carts, suite.cartRepo, suite.orderRepo, suite.gateway, zerolog.Nop(),
		WithOrderPublisher(suite.publisher),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

// 150000 x 2 + 200000 x 1
func (suite *CheckoutServiceTestSuite) fillCart() {
	cart, err := suite.carts.Open(suite.ctx, testSession)
	suite.Require().NoError(err)
	_, err = cart.Add(suite.ctx, soundSystemInput(1, 150000, 2))
	suite.Require().NoError(err)
	_, err = cart.Add(suite.ctx, soundSystemInput(2, 200000, 1))
	suite.Require().NoError(err)
}

func (suite *CheckoutServiceTestSuite) TestBeginEmptyCart() {
	_, err := suite.service.Begin(suite.ctx, testSession)
	suite.ErrorIs(err, ErrEmptyCart)

	_, err = suite.service.Quote(suite.ctx, testSession)
	suite.ErrorIs(err, ErrEmptyCart)
}

func (suite *CheckoutServiceTestSuite) TestBeginAndQuote() {
	suite.fillCart()

	view, err := suite.service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)
	suite.Len(view.Items, 2)

	expected := model.OrderQuote{
		ItemCount:     3,
		Subtotal:      500000,
		Deposit:       150000,
		ProcessingFee: 5000,
		TotalCharged:  155000,
	}
	suite.Equal(expected, view.Quote)

	quote, err := suite.service.Quote(suite.ctx, testSession)
	suite.Require().NoError(err)
	suite.Equal(expected, quote.Quote)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutSuccess() {
	suite.fillCart()
	_, err := suite.service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	order, err := suite.service.Checkout(suite.ctx, testSession, validPayment())
	suite.Require().NoError(err)

	suite.NotEmpty(order.ID)
	suite.Equal("EH-2026-000001", order.Reference)
	suite.Equal(int64(500000), order.Subtotal)
	suite.Equal(int64(150000), order.Deposit)
	suite.Equal(int64(5000), order.ProcessingFee)
	suite.Equal(int64(155000), order.TotalCharged)
	suite.Equal(fixedNow, order.ProcessedAt)
	suite.Len(order.Items, 2)

	cart, err := suite.carts.Open(suite.ctx, testSession)
	suite.Require().NoError(err)
	suite.True(cart.IsEmpty())

	_, err = suite.service.Quote(suite.ctx, testSession)
	suite.ErrorIs(err, ErrEmptyCart)

	last, err := suite.service.LastOrder(suite.ctx, testSession)
	suite.Require().NoError(err)
	suite.Equal(order.Reference, last.Reference)
	suite.Equal(order.TotalCharged, last.TotalCharged)

	suite.Equal([]event.EventType{event.OrderPlacedEventName}, suite.publisher.types())
	placed := suite.publisher.events[0].(*event.OrderPlacedEvent)
	suite.Equal(testSession, placed.SessionID)
	suite.Equal(order.Reference, placed.Order.Reference)
}

func (suite *CheckoutServiceTestSuite) TestReferencesIncrease() {
	var refs []string
	for i := 0; i < 3; i++ {
		suite.fillCart()
		_, err := suite.service.Begin(suite.ctx, testSession)
		suite.Require().NoError(err)
		order, err := suite.service.Checkout(suite.ctx, testSession, validPayment())
		suite.Require().NoError(err)
		refs = append(refs, order.Reference)
	}
	suite.Equal([]string{"EH-2026-000001", "EH-2026-000002", "EH-2026-000003"}, refs)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutWithoutSnapshot() {
	suite.fillCart()
	_, err := suite.service.Checkout(suite.ctx, testSession, validPayment())
	suite.ErrorIs(err, ErrEmptyCart)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutInvalidPaymentNoMutation() {
	suite.fillCart()
	_, err := suite.service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	details := validPayment()
	details.CardNumber = "4242 4242"
	_, err = suite.service.Checkout(suite.ctx, testSession, details)
	suite.ErrorIs(err, ErrInvalidPayment)

	var verr *ValidationError
	suite.Require().True(errors.As(err, &verr))
	suite.Contains(verr.Fields, "card_number")

	_, err = suite.service.Quote(suite.ctx, testSession)
	suite.NoError(err)
	_, err = suite.service.LastOrder(suite.ctx, testSession)
	suite.ErrorIs(err, ErrOrderNotFound)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutDeclinedNoMutation() {
	suite.fillCart()
	_, err := suite.service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	suite.gateway.SetOutcome(payment.OutcomeDeclined)
	_, err = suite.service.Checkout(suite.ctx, testSession, validPayment())
	suite.ErrorIs(err, payment.ErrDeclined)

	cart, err := suite.carts.Open(suite.ctx, testSession)
	suite.Require().NoError(err)
	suite.Len(cart.Items(), 2)

	_, err = suite.service.Quote(suite.ctx, testSession)
	suite.NoError(err)
	_, err = suite.service.LastOrder(suite.ctx, testSession)
	suite.ErrorIs(err, ErrOrderNotFound)
	suite.Empty(suite.publisher.types())
}

func (suite *CheckoutServiceTestSuite) TestCheckoutTimeout() {
	suite.fillCart()
	_, err := suite.service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	slow := payment.NewSimulatedGateway(payment.WithLatency(time.Second), payment.WithTimeout(10*time.Millisecond))
	service := NewCheckoutService(suite.carts, suite.cartRepo, suite.orderRepo, slow, zerolog.Nop())
	_, err = service.Checkout(suite.ctx, testSession, validPayment())
	suite.ErrorIs(err, payment.ErrTimeout)

	_, err = suite.service.Quote(suite.ctx, testSession)
	suite.NoError(err)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutRecordsWithoutPublisher() {
	recorder := new(mockRecorder)
	recorder.On("RecordOrder", mock.Anything, testSession, mock.AnythingOfType("*model.Order")).Return(nil).Once()

	service := NewCheckoutService(suite.carts, suite.cartRepo, suite.orderRepo, suite.gateway, zerolog.Nop(),
		WithOrderRecorder(recorder),
	)
	suite.fillCart()
	_, err := service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	_, err = service.Checkout(suite.ctx, testSession, validPayment())
	suite.Require().NoError(err)
	recorder.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestCheckoutRecorderFailureIgnored() {
	recorder := new(mockRecorder)
	recorder.On("RecordOrder", mock.Anything, testSession, mock.Anything).Return(errors.New("db down"))

	service := NewCheckoutService(suite.carts, suite.cartRepo, suite.orderRepo, suite.gateway, zerolog.Nop(),
		WithOrderRecorder(recorder),
	)
	suite.fillCart()
	_, err := service.Begin(suite.ctx, testSession)
	suite.Require().NoError(err)

	order, err := service.Checkout(suite.ctx, testSession, validPayment())
	suite.Require().NoError(err)
	suite.NotEmpty(order.Reference)
}

func (suite *CheckoutServiceTestSuite) TestLastOrderCorrupt() {
	key := testPrefix + ":eventro-last-order:" + testSession
	suite.mr.Set(key, "{broken")

	_, err := suite.service.LastOrder(suite.ctx, testSession)
	suite.ErrorIs(err, ErrOrderNotFound)
	suite.False(suite.mr.Exists(key))
}

func TestValidatePayment(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(p *PaymentDetails)
		fields []string
	}{
		{
			name:   "valid",
			modify: func(p *PaymentDetails) {},
		},
		{
			name:   "card number with spaces is counted without spaces",
			modify: func(p *PaymentDetails) { p.CardNumber = "4242 4242 4242 424" },
			fields: []string{"card_number"},
		},
		{
			name:   "expiry format",
			modify: func(p *PaymentDetails) { p.Expiry = "1/28" },
			fields: []string{"expiry"},
		},
		{
			name:   "cvc too short",
			modify: func(p *PaymentDetails) { p.CVC = "12" },
			fields: []string{"cvc"},
		},
		{
			name:   "terms not accepted",
			modify: func(p *PaymentDetails) { p.AcceptTerms = false },
			fields: []string{"accept_terms"},
		},
		{
			name: "required fields",
			modify: func(p *PaymentDetails) {
				p.CardholderName = "  "
				p.Email = ""
			},
			fields: []string{"cardholder_name", "email"},
		},
		{
			name:   "empty form",
			modify: func(p *PaymentDetails) { *p = PaymentDetails{} },
			fields: []string{"cardholder_name", "email", "card_number", "expiry", "cvc", "accept_terms"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayment()
			tc.modify(&p)
			err := ValidatePayment(p)
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Len(t, verr.Fields, len(tc.fields))
				for _, f := range tc.fields {
					assert.Contains(t, verr.Fields, f)
				}
			}
			assert.ErrorIs(t, err, ErrInvalidPayment)
		})
	}
}
