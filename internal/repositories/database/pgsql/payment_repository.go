package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_suite/internal/core/ports/repositories"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	db *pgxpool.Pool
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{db: db}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, user_id, plan, amount, currency, provider_payment_id, status, created_at, updated_at`

func toModelPayment(d domain.PaymentRecord) models.Payment {
	return models.Payment{
		PaymentID:         d.PaymentID,
		UserID:            d.UserID,
		Plan:              d.Plan,
		Amount:            d.Amount,
		Currency:          d.Currency,
		ProviderPaymentID: d.ProviderPaymentID,
		Status:            string(d.Status),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toDomainPayment(m models.Payment) domain.PaymentRecord {
	return domain.PaymentRecord{
		PaymentID:         m.PaymentID,
		UserID:            m.UserID,
		Plan:              m.Plan,
		Amount:            m.Amount,
		Currency:          m.Currency,
		ProviderPaymentID: m.ProviderPaymentID,
		Status:            domain.PaymentStatus(m.Status),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	m := toModelPayment(payment)
	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.PaymentID, m.UserID, m.Plan, m.Amount, m.Currency,
		m.ProviderPaymentID, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment %s: %w", payment.ProviderPaymentID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) findOne(ctx context.Context, query string, args ...any) (*domain.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	payment := toDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) FindLatestPayment(ctx context.Context, userID, plan string) (*domain.PaymentRecord, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE user_id = $1 AND plan = $2
        ORDER BY created_at DESC
        LIMIT 1;
    `
	payment, err := r.findOne(ctx, query, userID, plan)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find latest payment for user %s: %w", userID, err)
	}
	return payment, err
}

func (r *PgxPaymentRepository) FindPaymentByProviderID(ctx context.Context, providerPaymentID string) (*domain.PaymentRecord, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE provider_payment_id = $1;
    `
	payment, err := r.findOne(ctx, query, providerPaymentID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find payment %s: %w", providerPaymentID, err)
	}
	return payment, err
}

func (r *PgxPaymentRepository) MarkPaymentStatus(ctx context.Context, providerPaymentID string, status domain.PaymentStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, apperrors.NewValidationError("payment can only move to a terminal status")
	}
	query := `
        UPDATE payments
        SET status = $2, updated_at = NOW()
        WHERE provider_payment_id = $1 AND status = 'pending';
    `
	tag, err := r.db.Exec(ctx, query, providerPaymentID, string(status))
	if err != nil {
		return false, fmt.Errorf("failed to mark payment %s as %s: %w", providerPaymentID, status, err)
	}
	return tag.RowsAffected() == 1, nil
}
