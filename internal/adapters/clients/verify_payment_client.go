package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
)

// VerifyPaymentClient calls a remotely deployed payment-status verification function.
type VerifyPaymentClient struct {
	url        string
	httpClient *http.Client
}

func NewVerifyPaymentClient(url, apiKey string, timeout time.Duration) *VerifyPaymentClient {
	return &VerifyPaymentClient{url: url, httpClient: newHTTPClient(apiKey, timeout)}
}

var _ portssvc.PaymentVerifierSvc = (*VerifyPaymentClient)(nil)

func (c *VerifyPaymentClient) VerifyPayment(ctx context.Context, in domain.VerifyPaymentRequest) (domain.VerifyPaymentResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return domain.VerifyPaymentResult{}, fmt.Errorf("failed to encode verify request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.VerifyPaymentResult{}, fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.VerifyPaymentResult{}, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.VerifyPaymentResult{}, statusError(resp)
	}

	var result domain.VerifyPaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.VerifyPaymentResult{}, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if result.Status == "" {
		return domain.VerifyPaymentResult{}, fmt.Errorf("verify response has no status")
	}
	return result, nil
}
