package services_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider *MockPaymentProvider
	payments *MockPaymentRepository
	service  *services.CheckoutService
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.provider = new(MockPaymentProvider)
	suite.payments = new(MockPaymentRepository)
	prices := map[string]decimal.Decimal{"pro": dec("15"), "business": dec("39"), "free": decimal.Zero}
	suite.service = services.NewCheckoutService(suite.provider, suite.payments, prices,
		"https://app.example.com/billing/return", "https://app.example.com/billing", newFakeClock(), nil)
}

func (suite *CheckoutServiceTestSuite) TestUnknownOrFreePlanRejected() {
	_, err := suite.service.StartCheckout(suite.ctx, "u1", "platinum")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.StartCheckout(suite.ctx, "u1", domain.PlanFree)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.provider.AssertNotCalled(suite.T(), "CreatePayment", mock.Anything, mock.Anything)
}

func (suite *CheckoutServiceTestSuite) TestStartCheckout_RecordsPendingPayment() {
	suite.provider.On("CreatePayment", suite.ctx, mock.MatchedBy(func(req domain.CreateProviderPayment) bool {
		u, err := url.Parse(req.ReturnURL)
		return err == nil && u.Query().Get("plan") == "pro" && req.Amount.Equal(dec("15")) && req.Currency == "EUR" && req.UserID == "u1"
	})).Return(&domain.ProviderPayment{ProviderPaymentID: "pay_1", CheckoutURL: "https://pay.example.com/c/pay_1"}, nil).Once()
	suite.payments.On("SavePayment", suite.ctx, mock.MatchedBy(func(p domain.PaymentRecord) bool {
		return p.Status == domain.PaymentPending && p.ProviderPaymentID == "pay_1" && p.UserID == "u1" && p.Plan == "pro" && p.PaymentID != ""
	})).Return(nil).Once()

	session, err := suite.service.StartCheckout(suite.ctx, "u1", "pro")

	suite.Require().NoError(err)
	suite.Equal("https://pay.example.com/c/pay_1", session.CheckoutURL)
	suite.Equal("pay_1", session.ProviderPaymentID)
	suite.True(dec("15").Equal(session.Amount))
	suite.provider.AssertExpectations(suite.T())
	suite.payments.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestProviderFailureIsUnavailable() {
	suite.provider.On("CreatePayment", suite.ctx, mock.Anything).Return(nil, errors.New("503")).Once()

	_, err := suite.service.StartCheckout(suite.ctx, "u1", "business")

	suite.ErrorIs(err, apperrors.ErrUnavailable)
	suite.payments.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
