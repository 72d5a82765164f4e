package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// PaymentWebhookService applies provider payment events. The provider may deliver the same
// event more than once; a replay of an applied success is a no-op.
type PaymentWebhookService struct {
	BaseService
	secret        []byte
	payments      portsrepo.PaymentRepositoryFacade
	subscriptions portssvc.SubscriptionSvc
}

func NewPaymentWebhookService(secret string, payments portsrepo.PaymentRepositoryFacade, subscriptions portssvc.SubscriptionSvc) *PaymentWebhookService {
	return &PaymentWebhookService{secret: []byte(secret), payments: payments, subscriptions: subscriptions}
}

// SignPayload returns the hex HMAC-SHA256 of payload, as sent in the signature header.
func SignPayload(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentWebhookService) validSignature(payload []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	expected := SignPayload(s.secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func eventPaymentStatus(status string) (domain.PaymentStatus, bool) {
	switch strings.ToLower(status) {
	case "success", "succeeded", "paid", "completed":
		return domain.PaymentSuccess, true
	case "failed", "cancelled", "canceled", "expired":
		return domain.PaymentFailed, true
	}
	return domain.PaymentPending, false
}

func (s *PaymentWebhookService) HandleDelivery(ctx context.Context, payload []byte, signature string) error {
	if !s.validSignature(payload, signature) {
		return apperrors.NewAppError(http.StatusUnauthorized, "invalid webhook signature", apperrors.ErrUnauthorized)
	}

	var event domain.PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed payment event: %v", apperrors.ErrValidation, err)
	}
	if event.ProviderPaymentID == "" {
		return fmt.Errorf("%w: payment event without payment id", apperrors.ErrValidation)
	}
	logger := s.GetLogger(ctx).With(slog.String("event_id", event.EventID), slog.String("provider_payment_id", event.ProviderPaymentID))

	status, terminal := eventPaymentStatus(event.Status)
	if !terminal {
		logger.Debug("Ignoring non-terminal payment event", slog.String("status", event.Status))
		return nil
	}

	payment, err := s.payments.FindPaymentByProviderID(ctx, event.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Payment event for unknown payment acknowledged")
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	changed, err := s.payments.MarkPaymentStatus(ctx, event.ProviderPaymentID, status)
	if err != nil {
		return fmt.Errorf("failed to record payment status: %w", err)
	}
	logger.Info("Payment event applied", slog.String("status", string(status)), slog.Bool("changed", changed))

	if status != domain.PaymentSuccess {
		return nil
	}
	if event.Metadata.UserID != "" && event.Metadata.UserID != payment.UserID {
		logger.Warn("Payment event user does not match stored payment", slog.String("event_user_id", event.Metadata.UserID))
	}

	sub, err := s.subscriptions.GetSubscription(ctx, payment.UserID)
	if err == nil && sub.IsActiveFor(payment.Plan) && sub.ProviderPaymentID == event.ProviderPaymentID {
		logger.Debug("Subscription already activated by this payment")
		return nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	amount, currency := event.Amount, event.Currency
	if amount.IsZero() {
		amount = payment.Amount
	}
	if currency == "" {
		currency = payment.Currency
	}
	_, err = s.subscriptions.Activate(ctx, domain.ActivateSubscription{
		UserID:            payment.UserID,
		Plan:              payment.Plan,
		ProviderPaymentID: event.ProviderPaymentID,
		Amount:            amount,
		Currency:          currency,
	})
	return err
}
