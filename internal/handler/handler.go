package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/middleware"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/repository"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/service"
)

// BillerDirectory is the upstream feed the admin console imports billers
// from.
type BillerDirectory interface {
	GetBillers() ([]*models.Biller, error)
}

type Handler struct {
	svc       *service.Service
	directory BillerDirectory
}

// NewHandler initializes the HTTP handlers. directory may be nil when no
// upstream biller directory is configured.
func NewHandler(svc *service.Service, directory BillerDirectory) *Handler {
	return &Handler{svc: svc, directory: directory}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// userID extracts the authenticated user's id set by the auth middleware.
func userID(r *http.Request) (int64, bool) {
	sub, _ := r.Context().Value(middleware.UserIDKey).(string)
	if sub == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeError translates service errors into HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrCreditLimitExceeded),
		errors.Is(err, service.ErrZeroAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrBpayProcessing):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
