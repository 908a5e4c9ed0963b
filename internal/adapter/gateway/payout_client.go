// Package gateway holds the client for the external payout provider.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PayoutClient implements ports.PayoutGateway against the provider's
// HTTP API. Every call is bounded by the configured submit timeout; a
// transport error or timeout means the outcome is unknown, not failed.
type PayoutClient struct {
	baseURL    string
	httpClient HTTPClient
	timeout    time.Duration
	log        zerolog.Logger
}

// NewPayoutClient creates a payout gateway client.
func NewPayoutClient(cfg config.GatewayConfig, httpClient HTTPClient, log zerolog.Logger) *PayoutClient {
	return &PayoutClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		timeout:    cfg.SubmitTimeout,
		log:        log,
	}
}

type submitRequest struct {
	DestinationAccount string          `json:"destination_account"`
	Amount             decimal.Decimal `json:"amount"`
	Reference          string          `json:"reference"`
}

type payoutResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Submit sends a payout request keyed by reference. The provider
// deduplicates on reference, so retrying a timed-out submission cannot
// pay twice.
func (c *PayoutClient) Submit(ctx context.Context, destinationAccount string, amount decimal.Decimal, reference string) (*ports.PayoutResult, error) {
	body, err := json.Marshal(submitRequest{
		DestinationAccount: destinationAccount,
		Amount:             amount,
		Reference:          reference,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payout request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("reference", reference).Msg("payout submit failed in transit")
		return nil, fmt.Errorf("submit payout: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResult(resp, reference)
}

// GetStatus polls the provider for the outcome of a submitted payout.
func (c *PayoutClient) GetStatus(ctx context.Context, reference string) (*ports.PayoutResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/payouts/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get payout status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Never reached the provider: the submission was lost in transit.
		return &ports.PayoutResult{Status: ports.PayoutStatusUnknown}, nil
	}
	return c.decodeResult(resp, reference)
}

func (c *PayoutClient) decodeResult(resp *http.Response, reference string) (*ports.PayoutResult, error) {
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("payout provider returned %d", resp.StatusCode)
	}

	var pr payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode payout response: %w", err)
	}

	result := &ports.PayoutResult{Reason: pr.Reason}
	switch pr.Status {
	case "SUCCEEDED":
		result.Status = ports.PayoutStatusSucceeded
	case "PENDING":
		result.Status = ports.PayoutStatusPending
	case "REJECTED":
		result.Status = ports.PayoutStatusRejected
	default:
		c.log.Warn().Str("reference", reference).Str("status", pr.Status).Msg("unrecognized payout status")
		result.Status = ports.PayoutStatusUnknown
	}
	return result, nil
}
