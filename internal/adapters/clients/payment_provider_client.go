package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/smb_suite/internal/apperrors"
	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// PaymentProviderClient talks to the payment provider's REST API.
type PaymentProviderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentProviderClient(baseURL, apiKey string, timeout time.Duration) *PaymentProviderClient {
	return &PaymentProviderClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: newHTTPClient(apiKey, timeout)}
}

var _ portssvc.PaymentProvider = (*PaymentProviderClient)(nil)

type paymentMetadata struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

type createPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	ReturnURL   string          `json:"returnUrl"`
	CancelURL   string          `json:"cancelUrl"`
	Metadata    paymentMetadata `json:"metadata"`
}

type paymentResponse struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CheckoutURL string          `json:"checkoutUrl"`
	Metadata    paymentMetadata `json:"metadata"`
}

func (p paymentResponse) toDomain() *domain.ProviderPayment {
	return &domain.ProviderPayment{
		ProviderPaymentID: p.ID,
		Status:            providerStatus(p.Status),
		Amount:            p.Amount,
		Currency:          p.Currency,
		UserID:            p.Metadata.UserID,
		Plan:              p.Metadata.Plan,
		CheckoutURL:       p.CheckoutURL,
	}
}

// providerStatus folds the provider's status vocabulary onto the payment lifecycle.
func providerStatus(status string) domain.PaymentStatus {
	switch strings.ToLower(status) {
	case "success", "succeeded", "paid", "completed":
		return domain.PaymentSuccess
	case "failed", "cancelled", "canceled", "expired":
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}

func (c *PaymentProviderClient) CreatePayment(ctx context.Context, in domain.CreateProviderPayment) (*domain.ProviderPayment, error) {
	payload, err := json.Marshal(createPaymentRequest{
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
		ReturnURL:   in.ReturnURL,
		CancelURL:   in.CancelURL,
		Metadata:    paymentMetadata{UserID: in.UserID, Plan: in.Plan},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	payment, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if payment.ID == "" {
		return nil, fmt.Errorf("payment provider returned no payment id")
	}
	return payment.toDomain(), nil
}

func (c *PaymentProviderClient) GetPayment(ctx context.Context, providerPaymentID string) (*domain.ProviderPayment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+url.PathEscape(providerPaymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	payment, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", providerPaymentID, err)
	}
	return payment.toDomain(), nil
}

func (c *PaymentProviderClient) do(req *http.Request) (*paymentResponse, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode payment: %w", err)
	}
	return &payment, nil
}
