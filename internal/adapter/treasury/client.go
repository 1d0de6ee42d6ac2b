package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// vaultAccount is the custodial account name on the treasury side.
const vaultAccount = "vault"

// ErrTransferRejected indicates the treasury refused the transfer, e.g. the
// source account lacks funds.
var ErrTransferRejected = errors.New("transfer rejected")

// TooManyRequestsError represents rate limiting signal from treasury service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes value-transfer operations against the treasury service.
// Transfers are idempotent per reference, so a retried request never moves
// funds twice.
type Client interface {
	Payout(ctx context.Context, recipient string, amount uint64, reference string) error
	Collect(ctx context.Context, funder string, amount uint64, reference string) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// transferRequest mirrors JSON payload accepted by the treasury service.
type transferRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
}

// NewHTTPClient creates HTTP treasury client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse treasury url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("treasury url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Payout transfers amount from the vault account to the recipient.
func (c *HTTPClient) Payout(ctx context.Context, recipient string, amount uint64, reference string) error {
	return c.transfer(ctx, transferRequest{
		From:      vaultAccount,
		To:        recipient,
		Amount:    amount,
		Reference: reference,
	})
}

// Collect transfers amount from the funder account to the vault.
func (c *HTTPClient) Collect(ctx context.Context, funder string, amount uint64, reference string) error {
	return c.transfer(ctx, transferRequest{
		From:      funder,
		To:        vaultAccount,
		Amount:    amount,
		Reference: reference,
	})
}

func (c *HTTPClient) transfer(ctx context.Context, request transferRequest) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/transfers")

	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return ErrTransferRejected
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("treasury request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("treasury error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
