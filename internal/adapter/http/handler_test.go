package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/banktrack-backend/internal/adapter/customer/randomuser"
	"github.com/simaogato/banktrack-backend/internal/adapter/storage/memory"
	"github.com/simaogato/banktrack-backend/internal/usecase/customer"
	"github.com/simaogato/banktrack-backend/internal/usecase/ledger"
)

func newTestHandler(t *testing.T, customerAPIURL string) (*http.ServeMux, *ledger.Service) {
	t.Helper()

	store := memory.NewSnapshotStore()
	ledgerService := ledger.NewService(context.Background(), store)
	customerService := customer.NewService(randomuser.NewClient(customerAPIURL), ledgerService)

	return NewHandler(ledgerService, customerService).Routes(), ledgerService
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func TestTransactionLifecycle(t *testing.T) {
	mux, _ := newTestHandler(t, "")

	// Deposit 1000.00
	rec := doRequest(t, mux, http.MethodPost, "/transactions", addTransactionRequest{Type: "deposit", Amount: "1000.00"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var deposit transactionResponse
	decodeBody(t, rec, &deposit)
	assert.NotEmpty(t, deposit.ID)
	assert.Equal(t, "deposit", deposit.Type)

	// Withdraw 300.00
	rec = doRequest(t, mux, http.MethodPost, "/transactions", addTransactionRequest{Type: "withdrawal", Amount: "300.00"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var withdrawal transactionResponse
	decodeBody(t, rec, &withdrawal)

	// Balance is the fold of both.
	rec = doRequest(t, mux, http.MethodGet, "/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance balanceResponse
	decodeBody(t, rec, &balance)
	assert.True(t, balance.Balance.Equal(decimal.NewFromFloat(700.00)))

	// Newest first.
	rec = doRequest(t, mux, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []transactionResponse
	decodeBody(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, withdrawal.ID, list[0].ID)
	assert.Equal(t, deposit.ID, list[1].ID)

	// Overdrawing fails with the insufficient-funds kind.
	rec = doRequest(t, mux, http.MethodPost, "/transactions", addTransactionRequest{Type: "withdrawal", Amount: "800.00"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "insufficient_funds", errResp.Kind)
	assert.Equal(t, "danger", errResp.Category)

	// Deleting the deposit recomputes the balance to -300.00.
	rec = doRequest(t, mux, http.MethodDelete, fmt.Sprintf("/transactions/%s", deposit.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, mux, http.MethodGet, "/balance", nil)
	decodeBody(t, rec, &balance)
	assert.True(t, balance.Balance.Equal(decimal.NewFromFloat(-300.00)))
}

func TestAddTransaction_InvalidInput(t *testing.T) {
	mux, ledgerService := newTestHandler(t, "")

	tests := []struct {
		name     string
		body     interface{}
		wantKind string
	}{
		{name: "unknown type", body: addTransactionRequest{Type: "transfer", Amount: "10"}, wantKind: "bad_request"},
		{name: "non-numeric amount", body: addTransactionRequest{Type: "deposit", Amount: "lots"}, wantKind: "invalid_amount"},
		{name: "NaN amount", body: addTransactionRequest{Type: "deposit", Amount: "NaN"}, wantKind: "invalid_amount"},
		{name: "infinite amount", body: addTransactionRequest{Type: "deposit", Amount: "+Inf"}, wantKind: "invalid_amount"},
		{name: "zero amount", body: addTransactionRequest{Type: "deposit", Amount: "0"}, wantKind: "invalid_amount"},
		{name: "negative amount", body: addTransactionRequest{Type: "deposit", Amount: "-10"}, wantKind: "invalid_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, "/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp errorResponse
			decodeBody(t, rec, &errResp)
			assert.Equal(t, tt.wantKind, errResp.Kind)
			assert.Equal(t, "warning", errResp.Category)
		})
	}

	// None of the rejected requests touched the ledger.
	assert.Empty(t, ledgerService.Transactions())
	assert.True(t, ledgerService.Balance().IsZero())
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	mux, _ := newTestHandler(t, "")

	rec := doRequest(t, mux, http.MethodDelete, "/transactions/txn_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "not_found", errResp.Kind)
	assert.Equal(t, "danger", errResp.Category)
}

func TestClear(t *testing.T) {
	mux, ledgerService := newTestHandler(t, "")

	rec := doRequest(t, mux, http.MethodPost, "/transactions", addTransactionRequest{Type: "deposit", Amount: "100"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, mux, http.MethodDelete, "/transactions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, ledgerService.Transactions())
	assert.True(t, ledgerService.Balance().IsZero())
}

func TestGetStatistics(t *testing.T) {
	mux, _ := newTestHandler(t, "")

	for _, body := range []addTransactionRequest{
		{Type: "deposit", Amount: "1000"},
		{Type: "deposit", Amount: "500"},
		{Type: "withdrawal", Amount: "200"},
	} {
		rec := doRequest(t, mux, http.MethodPost, "/transactions", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, mux, http.MethodGet, "/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats statisticsResponse
	decodeBody(t, rec, &stats)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2, stats.DepositCount)
	assert.Equal(t, 1, stats.WithdrawalCount)
	assert.True(t, stats.TotalDeposits.Equal(decimal.NewFromInt(1500)))
	assert.True(t, stats.TotalWithdrawals.Equal(decimal.NewFromInt(200)))
	assert.True(t, stats.Balance.Equal(decimal.NewFromInt(1300)))
}

func TestLoadCustomer(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"name": {"first": "Jane", "last": "Doe"}, "email": "jane@example.com", "picture": {"large": "l.jpg"}, "phone": "555-0199", "location": {"city": "Lisbon", "country": "Portugal"}}]}`))
	}))
	defer apiServer.Close()

	mux, ledgerService := newTestHandler(t, apiServer.URL)

	// No customer loaded yet.
	rec := doRequest(t, mux, http.MethodGet, "/customer", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/customer/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, ledgerService.Customer())
	assert.Equal(t, "Jane Doe", ledgerService.Customer().Name)

	rec = doRequest(t, mux, http.MethodGet, "/customer", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoadCustomer_UpstreamFailure(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer apiServer.Close()

	mux, ledgerService := newTestHandler(t, apiServer.URL)

	rec := doRequest(t, mux, http.MethodPost, "/customer/load", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "profile_fetch_failed", errResp.Kind)
	assert.Equal(t, "danger", errResp.Category)
	assert.Nil(t, ledgerService.Customer())
}

func TestAuthMiddleware(t *testing.T) {
	mux, _ := newTestHandler(t, "")
	protected := AuthMiddleware("secret")(mux)

	// Missing header.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong token.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_DisabledWithEmptyToken(t *testing.T) {
	mux, _ := newTestHandler(t, "")
	open := AuthMiddleware("")(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
