package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// Transfer moves funds between two accounts immediately
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req struct {
		FromAccount int64           `json:"from_account"`
		ToAccount   int64           `json:"to_account"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		PayAnyone   bool            `json:"pay_anyone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	from, err := h.svc.FindAccount(ctx, req.FromAccount)
	if err != nil {
		writeError(w, err)
		return
	}
	if from.OwnerID != uid {
		http.Error(w, "Account does not belong to you", http.StatusForbidden)
		return
	}
	to, err := h.svc.FindAccount(ctx, req.ToAccount)
	if err != nil {
		writeError(w, err)
		return
	}

	txType := models.TransactionTypeTransfer
	if req.PayAnyone {
		txType = models.TransactionTypePayAny
	}
	t, err := h.svc.CreateTransaction(ctx, from, to, req.Amount, req.Description, txType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// PayBPAY applies a BPAY payment to the user's open bills for a biller
func (h *Handler) PayBPAY(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req struct {
		FromAccount     int64           `json:"from_account"`
		BillerCode      string          `json:"biller_code"`
		ReferenceNumber string          `json:"reference_number"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	biller, err := h.svc.FindBiller(ctx, req.BillerCode)
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := h.svc.FindAccount(ctx, req.FromAccount)
	if err != nil {
		writeError(w, err)
		return
	}
	if from.OwnerID != uid {
		http.Error(w, "Account does not belong to you", http.StatusForbidden)
		return
	}

	receipt, err := h.svc.PayBills(ctx, from, biller.Name, biller.Code, req.ReferenceNumber, req.Amount, req.Description, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
