package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(serverURL string, maxRetries int) *HTTPLedgerGateway {
	return NewHTTPLedgerGateway(Config{
		BaseURL:       serverURL,
		Timeout:       2 * time.Second,
		MaxRetries:    maxRetries,
		RetryInterval: time.Millisecond,
	}, zap.NewNop())
}

func testSubmission() bill.LedgerSubmission {
	return bill.LedgerSubmission{
		BillID:     uuid.New(),
		BillNumber: "BILL-20260115-00001",
		Action:     bill.LedgerActionIssue,
		Payload:    map[string]any{"face_value": "1000000.00"},
	}
}

func TestHTTPLedgerGateway_Submit(t *testing.T) {
	t.Run("returns transaction hash on success", func(t *testing.T) {
		var gotBody submitRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/bills/transactions", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(submitResponse{TxHash: "0xabc123"})
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 0)
		txHash, err := gateway.Submit(context.Background(), testSubmission())

		require.NoError(t, err)
		assert.Equal(t, "0xabc123", txHash)
		assert.Equal(t, "BILL-20260115-00001", gotBody.BillNumber)
		assert.Equal(t, "ISSUE", gotBody.Action)
	})

	t.Run("rejection is returned without retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(submitResponse{Code: "INVALID_HOLDER", Message: "endorser does not hold the bill"})
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 3)
		_, err := gateway.Submit(context.Background(), testSubmission())

		var ledgerErr *bill.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, bill.LedgerActionIssue, ledgerErr.Action)
		assert.Contains(t, ledgerErr.Message, "endorser does not hold the bill")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server errors are retried until success", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(submitResponse{TxHash: "0xdef456"})
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 3)
		txHash, err := gateway.Submit(context.Background(), testSubmission())

		require.NoError(t, err)
		assert.Equal(t, "0xdef456", txHash)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("exhausted retries return the last error", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 2)
		_, err := gateway.Submit(context.Background(), testSubmission())

		var ledgerErr *bill.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("unreachable node reports a ledger error", func(t *testing.T) {
		gateway := newTestGateway("http://127.0.0.1:1", 0)

		_, err := gateway.Submit(context.Background(), testSubmission())

		var ledgerErr *bill.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Contains(t, ledgerErr.Message, "unreachable")
	})

	t.Run("empty transaction hash is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(submitResponse{})
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 0)
		_, err := gateway.Submit(context.Background(), testSubmission())

		var ledgerErr *bill.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		gateway := newTestGateway(server.URL, 5)
		_, err := gateway.Submit(ctx, testSubmission())

		var ledgerErr *bill.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestHTTPLedgerGateway_FetchEndorsementHistory(t *testing.T) {
	t.Run("returns the recorded chain in order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/bills/BILL-20260115-00001/endorsements", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"bill_number": "BILL-20260115-00001",
				"endorsements": [
					{"endorser": "0xaaa", "endorsee": "0xbbb", "kind": "TRANSFER"},
					{"endorser": "0xbbb", "endorsee": "0xccc", "kind": "DISCOUNT"}
				]
			}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 0)
		chain, err := gateway.FetchEndorsementHistory(context.Background(), "BILL-20260115-00001")

		require.NoError(t, err)
		require.Len(t, chain, 2)
		assert.Equal(t, "0xaaa", chain[0].Endorser)
		assert.Equal(t, "0xbbb", chain[0].Endorsee)
		assert.Equal(t, "DISCOUNT", chain[1].Kind)
	})

	t.Run("non-200 reply is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL, 0)
		_, err := gateway.FetchEndorsementHistory(context.Background(), "BILL-MISSING")

		assert.Error(t, err)
	})
}
