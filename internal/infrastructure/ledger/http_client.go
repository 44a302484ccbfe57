package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scf/backend/internal/domain/bill"
	"go.uber.org/zap"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// Config holds connection settings for the ledger node
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// HTTPLedgerGateway implements bill.LedgerGateway against the REST facade of
// the ledger node. Submissions are synchronous: the caller holds its local
// database transaction open until the ledger confirms or rejects the event.
type HTTPLedgerGateway struct {
	baseURL       string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewHTTPLedgerGateway creates a new ledger gateway client
func NewHTTPLedgerGateway(cfg Config, logger *zap.Logger) *HTTPLedgerGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = 500 * time.Millisecond
	}
	return &HTTPLedgerGateway{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		maxRetries:    cfg.MaxRetries,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// submitRequest is the wire form of a lifecycle event submission
type submitRequest struct {
	BillID     string         `json:"bill_id"`
	BillNumber string         `json:"bill_number"`
	Action     string         `json:"action"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// submitResponse is the ledger node's reply to a submission
type submitResponse struct {
	TxHash  string `json:"tx_hash"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// endorsementHistoryResponse is the ledger node's endorsement chain reply
type endorsementHistoryResponse struct {
	BillNumber   string `json:"bill_number"`
	Endorsements []struct {
		Endorser string `json:"endorser"`
		Endorsee string `json:"endorsee"`
		Kind     string `json:"kind"`
	} `json:"endorsements"`
}

// Submit records a lifecycle event on the ledger and returns its transaction
// hash. Transport errors and 5xx replies are retried up to MaxRetries times;
// 4xx replies are treated as final rejections and returned immediately.
func (g *HTTPLedgerGateway) Submit(ctx context.Context, sub bill.LedgerSubmission) (string, error) {
	body, err := json.Marshal(submitRequest{
		BillID:     sub.BillID.String(),
		BillNumber: sub.BillNumber,
		Action:     string(sub.Action),
		Payload:    sub.Payload,
	})
	if err != nil {
		return "", bill.NewLedgerError(sub.Action, "failed to encode submission", err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", bill.NewLedgerError(sub.Action, "submission aborted", ctx.Err())
			case <-time.After(g.retryInterval):
			}
			g.logger.Warn("retrying ledger submission",
				zap.String("bill_number", sub.BillNumber),
				zap.String("action", string(sub.Action)),
				zap.Int("attempt", attempt),
			)
		}

		txHash, retryable, err := g.doSubmit(ctx, sub.Action, body)
		if err == nil {
			return txHash, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// doSubmit performs one submission attempt. The second return value reports
// whether the failure is worth retrying.
func (g *HTTPLedgerGateway) doSubmit(ctx context.Context, action bill.LedgerAction, body []byte) (string, bool, error) {
	url := g.baseURL + "/api/v1/bills/transactions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, bill.NewLedgerError(action, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, bill.NewLedgerError(action, "ledger node unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, bill.NewLedgerError(action, "failed to read response", err)
	}

	if resp.StatusCode >= 500 {
		return "", true, bill.NewLedgerError(action, fmt.Sprintf("ledger node error: HTTP %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= 400 {
		var rejection submitResponse
		if err := json.Unmarshal(respBody, &rejection); err == nil && rejection.Message != "" {
			return "", false, bill.NewLedgerError(action, rejection.Message, nil)
		}
		return "", false, bill.NewLedgerError(action, fmt.Sprintf("submission rejected: HTTP %d", resp.StatusCode), nil)
	}

	var result submitResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", false, bill.NewLedgerError(action, "failed to parse response", err)
	}
	if result.TxHash == "" {
		return "", false, bill.NewLedgerError(action, "ledger returned no transaction hash", nil)
	}
	return result.TxHash, false, nil
}

// FetchEndorsementHistory returns the endorsement chain the ledger holds for
// the bill, in sequence order
func (g *HTTPLedgerGateway) FetchEndorsementHistory(ctx context.Context, billNumber string) ([]bill.LedgerEndorsement, error) {
	url := g.baseURL + "/api/v1/bills/" + billNumber + "/endorsements"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger node unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endorsement history request failed: HTTP %d", resp.StatusCode)
	}

	var history endorsementHistoryResponse
	if err := json.Unmarshal(respBody, &history); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	chain := make([]bill.LedgerEndorsement, len(history.Endorsements))
	for i, e := range history.Endorsements {
		chain[i] = bill.LedgerEndorsement{
			Endorser: e.Endorser,
			Endorsee: e.Endorsee,
			Kind:     e.Kind,
		}
	}
	return chain, nil
}

// Ensure HTTPLedgerGateway implements LedgerGateway
var _ bill.LedgerGateway = (*HTTPLedgerGateway)(nil)
