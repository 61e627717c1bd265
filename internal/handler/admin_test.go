package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/lifecycle"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GrantAll(ctx context.Context, amount int64, note string) (int, error) {
	args := m.Called(ctx, amount, note)
	return args.Int(0), args.Error(1)
}

func (m *MockAccounts) History(ctx context.Context, userID string, limit int) ([]domain.CuTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CuTransaction), args.Error(1)
}

func (m *MockAccounts) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockAccounts) ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) TransitionExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLifecycle) CacheStats() lifecycle.CacheStats {
	args := m.Called()
	return args.Get(0).(lifecycle.CacheStats)
}

func newAdminRouter(h *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/reconcile", h.HandleReconcile)
	r.Post("/admin/sweep", h.HandleSweep)
	r.Get("/admin/cache/stats", h.HandleCacheStats)
	r.Post("/admin/grant", h.HandleGrant)
	r.Get("/admin/users/{userID}/stats", h.HandleUserStats)
	r.Get("/admin/users/{userID}/history", h.HandleUserHistory)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleReconcile(t *testing.T) {
	accounts := &MockAccounts{}
	accounts.On("ReconcileAll", mock.Anything).Return([]domain.Reconciliation{
		{UserID: "u1", CuAvailable: 90, LedgerSum: 90, Transactions: 2, Balanced: true},
	}, nil)

	w := serve(newAdminRouter(NewAdminHandler(accounts, &MockLifecycle{})), "GET", "/admin/reconcile", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)
	accounts.AssertExpectations(t)
}

func TestHandleSweep(t *testing.T) {
	lc := &MockLifecycle{}
	lc.On("TransitionExpired", mock.Anything).Return(int64(3), nil)

	w := serve(newAdminRouter(NewAdminHandler(&MockAccounts{}, lc)), "POST", "/admin/sweep", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expired":3`)
	assert.Contains(t, w.Body.String(), MsgSweepCompleted)
	lc.AssertExpectations(t)
}

func TestHandleSweep_StoreFailureIsHidden(t *testing.T) {
	lc := &MockLifecycle{}
	lc.On("TransitionExpired", mock.Anything).Return(int64(0), errors.New("pq: connection reset"))

	w := serve(newAdminRouter(NewAdminHandler(&MockAccounts{}, lc)), "POST", "/admin/sweep", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgGenericServerError)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandleCacheStats(t *testing.T) {
	lc := &MockLifecycle{}
	lc.On("CacheStats").Return(lifecycle.CacheStats{Hits: 7, Misses: 2, Size: 4})

	w := serve(newAdminRouter(NewAdminHandler(&MockAccounts{}, lc)), "GET", "/admin/cache/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":7,"misses":2,"size":4}`, w.Body.String())
}

func TestHandleGrant(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockAccounts)
		wantStatus int
		wantBody   string
	}{
		{
			name: "credits every user",
			body: `{"amount":25,"note":"Season bonus"}`,
			setup: func(m *MockAccounts) {
				m.On("GrantAll", mock.Anything, int64(25), "Season bonus").Return(4, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"users":4`,
		},
		{
			name:       "malformed body",
			body:       `{"amount":`,
			setup:      func(*MockAccounts) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   ErrMsgInvalidRequest,
		},
		{
			name:       "amount out of range",
			body:       `{"amount":0}`,
			setup:      func(*MockAccounts) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"kind":"validation"`,
		},
		{
			name: "partial failure reports user",
			body: `{"amount":5}`,
			setup: func(m *MockAccounts) {
				m.On("GrantAll", mock.Anything, int64(5), "").
					Return(1, fmt.Errorf("failed to grant user u2: %w", domain.ErrUserNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "u2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &MockAccounts{}
			tt.setup(accounts)

			w := serve(newAdminRouter(NewAdminHandler(accounts, &MockLifecycle{})), "POST", "/admin/grant", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			accounts.AssertExpectations(t)
		})
	}
}

func TestHandleUserStats(t *testing.T) {
	accounts := &MockAccounts{}
	accounts.On("Stats", mock.Anything, "u1").Return(&domain.UserStats{UserID: "u1", Total: 3, Correct: 2}, nil)
	accounts.On("Stats", mock.Anything, "ghost").Return(nil, fmt.Errorf("%w: ghost", domain.ErrUserNotFound))
	router := newAdminRouter(NewAdminHandler(accounts, &MockLifecycle{}))

	w := serve(router, "GET", "/admin/users/u1/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)

	w = serve(router, "GET", "/admin/users/ghost/stats", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"not_found"`)
	accounts.AssertExpectations(t)
}

func TestHandleUserHistory(t *testing.T) {
	accounts := &MockAccounts{}
	accounts.On("History", mock.Anything, "u1", 10).Return([]domain.CuTransaction{{ID: "t1", UserID: "u1", Amount: 100}}, nil)
	accounts.On("History", mock.Anything, "u1", 0).Return([]domain.CuTransaction{}, nil)
	router := newAdminRouter(NewAdminHandler(accounts, &MockLifecycle{}))

	w := serve(router, "GET", "/admin/users/u1/history?limit=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"t1"`)

	w = serve(router, "GET", "/admin/users/u1/history", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, "GET", "/admin/users/u1/history?limit=-4", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
	accounts.AssertExpectations(t)
}
