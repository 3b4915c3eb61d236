package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// CreateBiller registers a biller (admin)
func (h *Handler) CreateBiller(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"biller_name"`
		Code string `json:"biller_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	biller, err := h.svc.CreateBiller(r.Context(), req.Name, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, biller)
}

// ListBillers returns all registered billers
func (h *Handler) ListBillers(w http.ResponseWriter, r *http.Request) {
	billers, err := h.svc.ListBillers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, billers)
}

// DeleteBiller removes a biller (admin)
func (h *Handler) DeleteBiller(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid biller id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteBiller(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportBillers refreshes the biller registry from the upstream directory
// feed (admin)
func (h *Handler) ImportBillers(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil {
		http.Error(w, "No biller directory configured", http.StatusServiceUnavailable)
		return
	}
	billers, err := h.directory.GetBillers()
	if err != nil {
		http.Error(w, "Failed to fetch biller directory: "+err.Error(), http.StatusBadGateway)
		return
	}
	applied, err := h.svc.ImportBillers(r.Context(), billers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": applied})
}

// IssueBill creates a bill against a user on behalf of a biller (admin)
func (h *Handler) IssueBill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BilledUser  int64           `json:"billed_user"`
		BillerName  string          `json:"biller_name"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		LinkedBill  string          `json:"linked_bill"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.IssueBill(r.Context(), req.BilledUser, req.BillerName, req.Description, req.Amount, req.LinkedBill)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}
