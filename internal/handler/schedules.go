package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/service"
)

// CreateSchedule persists a scheduled or recurring payment
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req struct {
		ScheduleType    string          `json:"schedule_type"`
		Interval        string          `json:"interval"`
		RecurRule       string          `json:"recur_rule"`
		EndDate         time.Time       `json:"end_date"`
		RecurCount      int             `json:"recur_count"`
		FromAccount     int64           `json:"from_account"`
		ToAccount       int64           `json:"to_account"`
		BillerName      string          `json:"biller_name"`
		BillerCode      string          `json:"biller_code"`
		ReferenceNumber string          `json:"reference_number"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		PayAt           time.Time       `json:"pay_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	from, err := h.svc.FindAccount(r.Context(), req.FromAccount)
	if err != nil {
		writeError(w, err)
		return
	}
	if from.OwnerID != uid {
		http.Error(w, "Account does not belong to you", http.StatusForbidden)
		return
	}

	cfg := service.ScheduleConfig{
		Type:       service.NormalizeScheduleType(req.ScheduleType),
		Interval:   service.NormalizeInterval(req.Interval),
		RecurRule:  service.NormalizeRecurRule(req.RecurRule),
		EndDate:    req.EndDate,
		RecurCount: req.RecurCount,
	}
	ref, err := h.svc.CreateScheduleEntry(r.Context(), cfg,
		req.FromAccount, req.ToAccount, req.BillerName, req.BillerCode, req.ReferenceNumber,
		req.Amount, req.Description, req.PayAt, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"schedule_ref": ref})
}

// ListSchedules returns the authenticated user's schedules
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	schedules, err := h.svc.ListSchedules(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}
