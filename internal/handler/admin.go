package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/lifecycle"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/validation"
)

// Accounts is the account surface used by operators
type Accounts interface {
	GrantAll(ctx context.Context, amount int64, note string) (int, error)
	History(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error)
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)
	ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error)
}

// Lifecycle is the lifecycle surface used by operators
type Lifecycle interface {
	TransitionExpired(ctx context.Context) (int64, error)
	CacheStats() lifecycle.CacheStats
}

// GrantRequest credits every user
type GrantRequest struct {
	Amount int64  `json:"amount" validate:"required,min=1,max=10000"`
	Note   string `json:"note" validate:"max=500"`
}

// SweepResult reports a manual expiry sweep
type SweepResult struct {
	Expired int64 `json:"expired"`
}

// GrantResult reports a bulk grant
type GrantResult struct {
	Users int `json:"users"`
}

// AdminHandler serves operator endpoints
type AdminHandler struct {
	accounts  Accounts
	lifecycle Lifecycle
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accounts Accounts, lifecycle Lifecycle) *AdminHandler {
	return &AdminHandler{accounts: accounts, lifecycle: lifecycle}
}

// HandleReconcile checks every balance against its ledger
// GET /admin/reconcile
func (h *AdminHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	recs, err := h.accounts.ReconcileAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: recs})
}

// HandleSweep expires overdue predictions now
// POST /admin/sweep
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.lifecycle.TransitionExpired(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSweepCompleted, Data: SweepResult{Expired: n}})
}

// HandleCacheStats returns deadline cache statistics
// GET /admin/cache/stats
func (h *AdminHandler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.lifecycle.CacheStats())
}

// HandleGrant credits every user
// POST /admin/grant
func (h *AdminHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgDecodeFailed, "error", err)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequest, Kind: string(domain.KindValidation)})
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	n, err := h.accounts.GrantAll(r.Context(), req.Amount, req.Note)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgGrantCompleted, Data: GrantResult{Users: n}})
}

// HandleUserStats returns a user's forecasting record
// GET /admin/users/{userID}/stats
func (h *AdminHandler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounts.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// HandleUserHistory returns a user's latest ledger entries
// GET /admin/users/{userID}/history?limit=N
func (h *AdminHandler) HandleUserHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidLimit, Kind: string(domain.KindValidation)})
			return
		}
		limit = n
	}

	txns, err := h.accounts.History(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: txns})
}
