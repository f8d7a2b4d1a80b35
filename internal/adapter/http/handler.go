package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/simaogato/banktrack-backend/internal/domain"
	"github.com/simaogato/banktrack-backend/internal/usecase/customer"
	"github.com/simaogato/banktrack-backend/internal/usecase/ledger"
)

// Handler exposes the ledger and customer services over JSON HTTP.
type Handler struct {
	LedgerService   *ledger.Service
	CustomerService *customer.Service
}

// NewHandler creates a new Handler instance
func NewHandler(ledgerService *ledger.Service, customerService *customer.Service) *Handler {
	return &Handler{
		LedgerService:   ledgerService,
		CustomerService: customerService,
	}
}

// Routes wires all endpoints onto a ServeMux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /transactions", h.AddTransaction)
	mux.HandleFunc("GET /transactions", h.ListTransactions)
	mux.HandleFunc("DELETE /transactions", h.Clear)
	mux.HandleFunc("DELETE /transactions/{id}", h.DeleteTransaction)
	mux.HandleFunc("GET /balance", h.GetBalance)
	mux.HandleFunc("GET /statistics", h.GetStatistics)
	mux.HandleFunc("POST /customer/load", h.LoadCustomer)
	mux.HandleFunc("GET /customer", h.GetCustomer)

	return mux
}

type addTransactionRequest struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

type transactionResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type statisticsResponse struct {
	Count            int             `json:"count"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	DepositCount     int             `json:"depositCount"`
	WithdrawalCount  int             `json:"withdrawalCount"`
	Balance          decimal.Decimal `json:"balance"`
}

// errorResponse carries the error kind so a UI can pick a notification
// category (warning vs danger vs info) without parsing messages.
type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddTransaction handles POST /transactions
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "bad_request", "warning")
		return
	}

	txType := domain.TransactionType(req.Type)
	if txType != domain.TransactionTypeDeposit && txType != domain.TransactionTypeWithdrawal {
		respondError(w, http.StatusBadRequest, "type must be deposit or withdrawal", "bad_request", "warning")
		return
	}

	// Rejects NaN, Inf and non-numeric input at the boundary; the service
	// rejects non-positive values.
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondDomainError(w, domain.ErrInvalidAmount)
		return
	}

	tx, err := h.LedgerService.Add(r.Context(), txType, amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// ListTransactions handles GET /transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.LedgerService.Transactions()

	response := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		response = append(response, toTransactionResponse(&transactions[i]))
	}
	respondJSON(w, http.StatusOK, response)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, err := h.LedgerService.Remove(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Clear handles DELETE /transactions
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.LedgerService.Clear(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// GetBalance handles GET /balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, balanceResponse{Balance: h.LedgerService.Balance()})
}

// GetStatistics handles GET /statistics
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats := h.LedgerService.Statistics()

	respondJSON(w, http.StatusOK, statisticsResponse{
		Count:            stats.Count,
		TotalDeposits:    stats.TotalDeposits,
		TotalWithdrawals: stats.TotalWithdrawals,
		DepositCount:     stats.DepositCount,
		WithdrawalCount:  stats.WithdrawalCount,
		Balance:          stats.Balance,
	})
}

// LoadCustomer handles POST /customer/load
func (h *Handler) LoadCustomer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.CustomerService.Load(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetCustomer handles GET /customer
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	profile := h.LedgerService.Customer()
	if profile == nil {
		respondError(w, http.StatusNotFound, "no customer loaded", "not_found", "info")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
	}
}

// respondDomainError maps domain errors to HTTP status codes and
// notification categories.
func respondDomainError(w http.ResponseWriter, err error) {
	var fetchErr *domain.ProfileFetchError

	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, err.Error(), "invalid_amount", "warning")
	case errors.Is(err, domain.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_funds", "danger")
	case errors.Is(err, domain.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, err.Error(), "not_found", "danger")
	case errors.Is(err, customer.ErrStaleLoad):
		respondError(w, http.StatusConflict, err.Error(), "stale_load", "info")
	case errors.As(err, &fetchErr):
		respondError(w, http.StatusBadGateway, err.Error(), "profile_fetch_failed", "danger")
	default:
		log.Error().Err(err).Msg("unexpected error handling request")
		respondError(w, http.StatusInternalServerError, "internal server error", "internal", "danger")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message, kind, category string) {
	respondJSON(w, status, errorResponse{Error: message, Kind: kind, Category: category})
}
