package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Choice is the side a commitment backs. It is either a binary yes/no or a
// specific option of a multiple choice prediction, never both. The zero value
// is not a valid choice.
type Choice struct {
	kind     OutcomeType
	yes      bool
	optionID string
}

// BinaryChoice builds a choice for a BINARY prediction
func BinaryChoice(yes bool) Choice {
	return Choice{kind: OutcomeTypeBinary, yes: yes}
}

// OptionChoice builds a choice for a MULTIPLE_CHOICE prediction
func OptionChoice(optionID string) Choice {
	return Choice{kind: OutcomeTypeMultipleChoice, optionID: optionID}
}

// Kind returns the outcome type this choice belongs to
func (c Choice) Kind() OutcomeType { return c.kind }

// IsZero reports whether the choice was never set
func (c Choice) IsZero() bool { return c.kind == "" }

// Binary returns the yes/no value and whether the choice is binary
func (c Choice) Binary() (bool, bool) {
	return c.yes, c.kind == OutcomeTypeBinary
}

// OptionID returns the option id and whether the choice is an option
func (c Choice) OptionID() (string, bool) {
	return c.optionID, c.kind == OutcomeTypeMultipleChoice
}

// SameSide reports whether two choices back the same side of the pool
func (c Choice) SameSide(other Choice) bool {
	if c.kind != other.kind {
		return false
	}
	if c.kind == OutcomeTypeMultipleChoice {
		return c.optionID == other.optionID
	}
	return c.yes == other.yes
}

// Columns splits the choice into its persisted form
func (c Choice) Columns() (binary *bool, optionID *string) {
	switch c.kind {
	case OutcomeTypeBinary:
		v := c.yes
		return &v, nil
	case OutcomeTypeMultipleChoice:
		v := c.optionID
		return nil, &v
	}
	return nil, nil
}

// ChoiceFromColumns rebuilds a choice from its persisted form
func ChoiceFromColumns(binary *bool, optionID *string) (Choice, error) {
	switch {
	case binary != nil && optionID == nil:
		return BinaryChoice(*binary), nil
	case binary == nil && optionID != nil:
		return OptionChoice(*optionID), nil
	}
	return Choice{}, fmt.Errorf("%w: commitment must carry exactly one of binary choice or option", ErrLedgerInvariant)
}

func (c Choice) String() string {
	switch c.kind {
	case OutcomeTypeBinary:
		if c.yes {
			return "yes"
		}
		return "no"
	case OutcomeTypeMultipleChoice:
		return "option:" + c.optionID
	}
	return "none"
}

type choiceJSON struct {
	BinaryChoice *bool   `json:"binary_choice,omitempty"`
	OptionID     *string `json:"option_id,omitempty"`
}

// MarshalJSON encodes the choice with the same field names the schema uses
func (c Choice) MarshalJSON() ([]byte, error) {
	b, o := c.Columns()
	return json.Marshal(choiceJSON{BinaryChoice: b, OptionID: o})
}

// UnmarshalJSON decodes a choice previously produced by MarshalJSON
func (c *Choice) UnmarshalJSON(data []byte) error {
	var raw choiceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.BinaryChoice == nil && raw.OptionID == nil {
		*c = Choice{}
		return nil
	}
	parsed, err := ChoiceFromColumns(raw.BinaryChoice, raw.OptionID)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Commitment is one user's stake on one prediction
type Commitment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PredictionID string    `json:"prediction_id"`
	CuCommitted  int64     `json:"cu_committed"`
	Choice       Choice    `json:"choice"`
	RsSnapshot   float64   `json:"rs_snapshot"`
	CuReturned   *int64    `json:"cu_returned,omitempty"`
	RsChange     *float64  `json:"rs_change,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsSettled reports whether resolution already wrote its result
func (c *Commitment) IsSettled() bool {
	return c.CuReturned != nil || c.RsChange != nil
}

// Pool is the live CU composition of a prediction as seen from one side
type Pool struct {
	TotalPoolCU int64 `json:"total_pool_cu"`
	YourSideCU  int64 `json:"your_side_cu"`
}

// PoolSide is the CU committed to one side of a prediction
type PoolSide struct {
	Choice      Choice `json:"choice"`
	CuCommitted int64  `json:"cu_committed"`
	Commitments int    `json:"commitments"`
}

// PoolBreakdown is the per-side composition of a prediction
type PoolBreakdown struct {
	PredictionID string     `json:"prediction_id"`
	TotalPoolCU  int64      `json:"total_pool_cu"`
	Sides        []PoolSide `json:"sides"`
}

// Penalty is the cost of exiting a stake before resolution
type Penalty struct {
	CuBurned   int64   `json:"cu_burned"`
	CuRefunded int64   `json:"cu_refunded"`
	BurnRate   float64 `json:"burn_rate"`
}

// Payout is what resolution returns for a single commitment
type Payout struct {
	CuReturned int64   `json:"cu_returned"`
	RsChange   float64 `json:"rs_change"`
}

// PenaltyPreview is the would-be result of removing a commitment now
type PenaltyPreview struct {
	CuCommitted int64 `json:"cu_committed"`
	Penalty
	Pool
}

// WithdrawalReason records why CU left a commitment early
type WithdrawalReason string

const (
	WithdrawalReasonRemove   WithdrawalReason = "REMOVE"
	WithdrawalReasonDecrease WithdrawalReason = "DECREASE"
	WithdrawalReasonSwitch   WithdrawalReason = "SWITCH"
)

// Withdrawal is the append-only audit of an early exit
type Withdrawal struct {
	ID           string           `json:"id"`
	CommitmentID string           `json:"commitment_id"`
	UserID       string           `json:"user_id"`
	PredictionID string           `json:"prediction_id"`
	Reason       WithdrawalReason `json:"reason"`
	CuExited     int64            `json:"cu_exited"`
	CuBurned     int64            `json:"cu_burned"`
	CuRefunded   int64            `json:"cu_refunded"`
	BurnRate     float64          `json:"burn_rate"`
	TotalPoolCU  int64            `json:"total_pool_cu"`
	YourSideCU   int64            `json:"your_side_cu"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateCommitmentRequest is the input of a new commitment
type CreateCommitmentRequest struct {
	CuCommitted  int64   `json:"cu_committed" validate:"required,min=1"`
	BinaryChoice *bool   `json:"binary_choice,omitempty"`
	OptionID     *string `json:"option_id,omitempty" validate:"omitempty,max=64"`
}

// UpdateCommitmentRequest changes amount and/or side of an existing commitment
type UpdateCommitmentRequest struct {
	CuCommitted  *int64  `json:"cu_committed,omitempty" validate:"omitempty,min=1"`
	BinaryChoice *bool   `json:"binary_choice,omitempty"`
	OptionID     *string `json:"option_id,omitempty" validate:"omitempty,max=64"`
}

// IsEmpty reports whether the update carries no field at all
func (r UpdateCommitmentRequest) IsEmpty() bool {
	return r.CuCommitted == nil && r.BinaryChoice == nil && r.OptionID == nil
}

// CommitmentChange is the result of an update
type CommitmentChange struct {
	Commitment    *Commitment     `json:"commitment"`
	Switched      bool            `json:"switched"`
	CuLockedDelta int64           `json:"cu_locked_delta"`
	Penalty       *PenaltyPreview `json:"penalty,omitempty"`
}

// WithdrawalResult is the result of removing a commitment
type WithdrawalResult struct {
	Withdrawal  *Withdrawal `json:"withdrawal"`
	CuAvailable int64       `json:"cu_available"`
	CuLocked    int64       `json:"cu_locked"`
}
