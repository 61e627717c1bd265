package domain

import "time"

// User is a participant account holding CU and reputation
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	CuAvailable int64     `json:"cu_available"`
	CuLocked    int64     `json:"cu_locked"`
	RS          float64   `json:"rs"`
	IsBot       bool      `json:"is_bot"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionType enumerates ledger entry types
type TransactionType string

const (
	TransactionInitialGrant     TransactionType = "INITIAL_GRANT"
	TransactionCommitmentLock   TransactionType = "COMMITMENT_LOCK"
	TransactionCommitmentUnlock TransactionType = "COMMITMENT_UNLOCK"
	TransactionRefund           TransactionType = "REFUND"
	TransactionAdminAdjustment  TransactionType = "ADMIN_ADJUSTMENT"
)

// CuTransaction is an append-only ledger entry. Amount is the signed change
// applied to CuAvailable and BalanceAfter is CuAvailable right after it.
type CuTransaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Type         TransactionType `json:"type"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	ReferenceID  *string         `json:"reference_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RegisterRequest creates a new account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	IsBot    bool   `json:"is_bot"`
}

// AdjustmentRequest is an administrative CU grant or clawback
type AdjustmentRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Amount int64  `json:"amount" validate:"required,min=-10000,max=10000"`
	Note   string `json:"note" validate:"max=500"`
}

// UserStats summarises a user's forecasting record
type UserStats struct {
	UserID        string  `json:"user_id"`
	Total         int     `json:"total"`
	Resolved      int     `json:"resolved"`
	Correct       int     `json:"correct"`
	Wrong         int     `json:"wrong"`
	Refunded      int     `json:"refunded"`
	Pending       int     `json:"pending"`
	Accuracy      float64 `json:"accuracy"`
	CuCommitted   int64   `json:"cu_committed"`
	CuReturned    int64   `json:"cu_returned"`
	NetCU         int64   `json:"net_cu"`
	TotalRSChange float64 `json:"total_rs_change"`
}

// Reconciliation compares a balance against the sum of its ledger
type Reconciliation struct {
	UserID       string `json:"user_id"`
	CuAvailable  int64  `json:"cu_available"`
	LedgerSum    int64  `json:"ledger_sum"`
	Transactions int    `json:"transactions"`
	Balanced     bool   `json:"balanced"`
}
