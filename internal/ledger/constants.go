package ledger

import "github.com/shopspring/decimal"

// Penalty tuning
var (
	// MinBurnRate is charged on any early exit, however small the side's share
	MinBurnRate = decimal.New(10, -2)
	// MaxBurnRate is charged when the exiting side is the whole pool
	MaxBurnRate = decimal.NewFromInt(1)
)

// Resolution tuning
var (
	CorrectPayoutMultiplier = decimal.New(15, -1)
	CorrectRSRate           = decimal.New(1, -1)
	WrongRSRate             = decimal.New(-5, -2)
)

// Error messages for invariant violations
const (
	ErrMsgNonPositiveCommitment = "cu committed must be positive"
	ErrMsgSideBelowCommitment   = "side pool smaller than the exiting commitment"
	ErrMsgPoolBelowSide         = "total pool smaller than the side pool"
	ErrMsgUnknownOutcome        = "unknown resolution outcome"
)
