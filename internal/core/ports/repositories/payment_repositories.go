package repositories

import (
	"context"

	"github.com/SscSPs/smb_suite/internal/core/domain"
)

// PaymentReader defines read operations for payment records
type PaymentReader interface {
	// FindLatestPayment returns the most recently created payment for userID and plan.
	FindLatestPayment(ctx context.Context, userID, plan string) (*domain.PaymentRecord, error)

	// FindPaymentByProviderID looks a payment up by the provider's reference.
	FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.PaymentRecord, error)
}

// PaymentWriter defines write operations for payment records
type PaymentWriter interface {
	// SavePayment inserts a new payment record.
	SavePayment(ctx context.Context, payment domain.PaymentRecord) error

	// MarkPaymentStatus moves a pending payment to a terminal status. It reports false
	// when the payment was no longer pending, leaving the row untouched.
	MarkPaymentStatus(ctx context.Context, providerPaymentID string, status domain.PaymentStatus) (bool, error)
}

// PaymentRepositoryFacade combines all payment repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
