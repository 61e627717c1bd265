package domain

// Ledger defaults
const (
	DefaultInitialGrantCU  = 100
	DefaultMaxCommitmentCU = 1000
	MaxAdjustmentCU        = 10000
)

// Ledger notes written onto CuTransaction rows
const (
	NoteWelcomeBonus       = "Welcome bonus"
	NoteCommitmentLocked   = "CU committed to prediction"
	NoteCommitmentIncrease = "Commitment increased"
	NoteCommitmentSwitch   = "Commitment switched side"
	NoteExitRefund         = "Early exit refund"
	NoteResolutionFormat   = "Prediction resolved: %s"
	NoteAdminAdjustment    = "Admin adjustment"
)

// Prediction authoring limits
const (
	MinOptions = 2
	MaxOptions = 10
)
