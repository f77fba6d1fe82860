// Package custody talks to the external custody service that holds the
// underlying asset. The ledger never moves real funds itself; it asks the
// custodian to collect on deposit and disburse on redemption.
package custody

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const (
	collectPath  = "/api/v1/custody/collect"
	disbursePath = "/api/v1/custody/disburse"
)

// HTTPGateway drives a remote custody service over HTTP. Requests are
// retried with exponential backoff; a 4xx response is treated as final.
type HTTPGateway struct {
	baseURL    string
	token      string
	client     *http.Client
	maxElapsed time.Duration
}

// NewHTTPGateway creates a gateway for the custody service at baseURL.
// token, when non-empty, is sent as a bearer credential.
func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    baseURL,
		token:      token,
		client:     &http.Client{Timeout: 10 * time.Second},
		maxElapsed: 30 * time.Second,
	}
}

type transferRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Collect pulls amount from the account's funding source into custody.
func (g *HTTPGateway) Collect(ctx context.Context, accountID string, amount decimal.Decimal) error {
	return g.post(ctx, collectPath, accountID, amount)
}

// Disburse pays amount out of custody back to the account's owner.
func (g *HTTPGateway) Disburse(ctx context.Context, accountID string, amount decimal.Decimal) error {
	return g.post(ctx, disbursePath, accountID, amount)
}

func (g *HTTPGateway) post(ctx context.Context, path, accountID string, amount decimal.Decimal) error {
	body, err := json.Marshal(transferRequest{AccountID: accountID, Amount: amount})
	if err != nil {
		return fmt.Errorf("failed to marshal custody request: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if g.token != "" {
			req.Header.Set("Authorization", "Bearer "+g.token)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 300 {
			return nil
		}
		err = fmt.Errorf("custody service returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = g.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("custody %s failed: %w", path, err)
	}
	return nil
}

// NoopGateway acknowledges every custody request without moving anything.
// It exists for local development where no custodian is running.
type NoopGateway struct {
	logger *slog.Logger
}

// NewNoopGateway creates a gateway that accepts all transfers.
func NewNoopGateway(logger *slog.Logger) *NoopGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopGateway{logger: logger}
}

// Collect logs the deposit and reports success.
func (g *NoopGateway) Collect(ctx context.Context, accountID string, amount decimal.Decimal) error {
	g.logger.InfoContext(ctx, "custody collect acknowledged",
		"account_id", accountID,
		"amount", amount.String(),
	)
	return nil
}

// Disburse logs the payout and reports success.
func (g *NoopGateway) Disburse(ctx context.Context, accountID string, amount decimal.Decimal) error {
	g.logger.InfoContext(ctx, "custody disburse acknowledged",
		"account_id", accountID,
		"amount", amount.String(),
	)
	return nil
}
