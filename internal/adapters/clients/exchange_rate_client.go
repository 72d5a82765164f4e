package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ExchangeRateClient fetches the latest rates relative to the base currency.
type ExchangeRateClient struct {
	url        string
	httpClient *http.Client
}

func NewExchangeRateClient(url, apiKey string, timeout time.Duration) *ExchangeRateClient {
	return &ExchangeRateClient{url: url, httpClient: newHTTPClient(apiKey, timeout)}
}

var _ portssvc.RateFetcher = (*ExchangeRateClient)(nil)

type latestRatesResponse struct {
	Result    string                     `json:"result"`
	ErrorType string                     `json:"error-type"`
	BaseCode  string                     `json:"base_code"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns the rate map. A response without result "success" is an error.
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var body latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	if body.Result != "success" {
		if body.ErrorType != "" {
			return nil, fmt.Errorf("rate provider returned %q: %s", body.Result, body.ErrorType)
		}
		return nil, fmt.Errorf("rate provider returned %q", body.Result)
	}
	if body.BaseCode != "" && body.BaseCode != domain.BaseCurrency {
		return nil, fmt.Errorf("rates are based on %s, expected %s", body.BaseCode, domain.BaseCurrency)
	}
	if len(body.Rates) == 0 {
		return nil, errors.New("rate provider returned no rates")
	}
	return body.Rates, nil
}
