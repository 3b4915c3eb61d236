package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ListBills returns the authenticated user's bills, with overdue status
// derived at read time
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	bills, err := h.svc.ListBills(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// ListMessages returns the authenticated user's inbox
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	messages, err := h.svc.ListMessages(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// MarkMessageRead toggles the read flag on an inbox message
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}
	var req struct {
		Read bool `json:"read"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.MarkMessageRead(r.Context(), id, req.Read); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
