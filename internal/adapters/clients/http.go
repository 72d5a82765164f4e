// Package clients holds the HTTP adapters for the remote collaborators: the rate feed,
// the payment provider and the remote payment verification function.
package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const maxErrorBody = 512

// newHTTPClient returns a client with the given timeout that sends apiKey as a bearer
// token. An empty apiKey yields an unauthenticated client.
func newHTTPClient(apiKey string, timeout time.Duration) *http.Client {
	base := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	if apiKey == "" {
		return base
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}))
	client.Timeout = timeout
	return client
}

// statusError reads a short excerpt of a non-2xx body into an error.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return fmt.Errorf("unexpected status %s: %s", resp.Status, msg)
}
