package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req struct {
		Type           models.AccountType `json:"type"`
		OpeningBalance decimal.Decimal    `json:"opening_balance"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.svc.OpenAccount(r.Context(), uid, req.Type, req.OpeningBalance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// ListAccounts returns the authenticated user's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	accounts, err := h.svc.ListAccounts(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// ListTransactions returns the transaction history for an account
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}
	transactions, err := h.svc.ListTransactions(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}
