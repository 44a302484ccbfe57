package dto

import (
	"net/http"
	"testing"

	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		status int
	}{
		{"not found maps to 404", shared.CodeNotFound, http.StatusNotFound},
		{"validation maps to 400", shared.CodeValidationFailed, http.StatusBadRequest},
		{"invalid date range maps to 400", bill.CodeInvalidDateRange, http.StatusBadRequest},
		{"unauthorized maps to 403", shared.CodeUnauthorized, http.StatusForbidden},
		{"already exists maps to 409", shared.CodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict maps to 409", shared.CodeConcurrencyConflict, http.StatusConflict},
		{"duplicate active resource maps to 409", shared.CodeDuplicateActiveResource, http.StatusConflict},
		{"invalid state maps to 422", shared.CodeInvalidState, http.StatusUnprocessableEntity},
		{"wrong holder maps to 422", bill.CodeWrongHolder, http.StatusUnprocessableEntity},
		{"self endorsement maps to 422", bill.CodeSelfEndorsement, http.StatusUnprocessableEntity},
		{"party not active maps to 422", bill.CodePartyNotActive, http.StatusUnprocessableEntity},
		{"ledger error maps to 502", shared.CodeLedgerError, http.StatusBadGateway},
		{"unknown code maps to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(shared.CodeNotFound, "Bill not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "Bill not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}
