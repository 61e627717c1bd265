package domain

import "time"

// PredictionStatus is a state of the prediction lifecycle
type PredictionStatus string

const (
	PredictionStatusDraft           PredictionStatus = "DRAFT"
	PredictionStatusPendingApproval PredictionStatus = "PENDING_APPROVAL"
	PredictionStatusActive          PredictionStatus = "ACTIVE"
	PredictionStatusPending         PredictionStatus = "PENDING"
	PredictionStatusResolvedCorrect PredictionStatus = "RESOLVED_CORRECT"
	PredictionStatusResolvedWrong   PredictionStatus = "RESOLVED_WRONG"
	PredictionStatusVoid            PredictionStatus = "VOID"
	PredictionStatusUnresolvable    PredictionStatus = "UNRESOLVABLE"
)

// OpenStatuses are the statuses from which a prediction may be resolved
var OpenStatuses = []PredictionStatus{PredictionStatusActive, PredictionStatusPending}

// IsOpen reports whether the prediction can still be resolved
func (s PredictionStatus) IsOpen() bool {
	return s == PredictionStatusActive || s == PredictionStatusPending
}

// IsTerminal reports whether the status is final
func (s PredictionStatus) IsTerminal() bool {
	switch s {
	case PredictionStatusResolvedCorrect, PredictionStatusResolvedWrong,
		PredictionStatusVoid, PredictionStatusUnresolvable:
		return true
	}
	return false
}

// OutcomeType determines how a commitment expresses its side
type OutcomeType string

const (
	OutcomeTypeBinary         OutcomeType = "BINARY"
	OutcomeTypeMultipleChoice OutcomeType = "MULTIPLE_CHOICE"
)

// Valid reports whether t is a known outcome type
func (t OutcomeType) Valid() bool {
	return t == OutcomeTypeBinary || t == OutcomeTypeMultipleChoice
}

// ResolutionOutcome is the verdict given by a resolver
type ResolutionOutcome string

const (
	OutcomeCorrect      ResolutionOutcome = "correct"
	OutcomeWrong        ResolutionOutcome = "wrong"
	OutcomeVoid         ResolutionOutcome = "void"
	OutcomeUnresolvable ResolutionOutcome = "unresolvable"
)

// IsJudged reports whether the outcome passes judgment on the claim.
// Void and unresolvable outcomes refund everybody.
func (o ResolutionOutcome) IsJudged() bool {
	return o == OutcomeCorrect || o == OutcomeWrong
}

// TerminalStatus maps an outcome to the status the prediction ends in
func (o ResolutionOutcome) TerminalStatus() (PredictionStatus, bool) {
	switch o {
	case OutcomeCorrect:
		return PredictionStatusResolvedCorrect, true
	case OutcomeWrong:
		return PredictionStatusResolvedWrong, true
	case OutcomeVoid:
		return PredictionStatusVoid, true
	case OutcomeUnresolvable:
		return PredictionStatusUnresolvable, true
	}
	return "", false
}

// PredictionOption is one selectable answer of a multiple choice prediction
type PredictionOption struct {
	ID           string `json:"id"`
	PredictionID string `json:"prediction_id"`
	Text         string `json:"text"`
	DisplayOrder int    `json:"display_order"`
	IsCorrect    *bool  `json:"is_correct,omitempty"`
}

// Prediction is a claim users commit CU to
type Prediction struct {
	ID                string             `json:"id"`
	AuthorID          string             `json:"author_id"`
	ClaimText         string             `json:"claim_text"`
	Status            PredictionStatus   `json:"status"`
	OutcomeType       OutcomeType        `json:"outcome_type"`
	ResolveByDatetime time.Time          `json:"resolve_by_datetime"`
	LockedAt          *time.Time         `json:"locked_at,omitempty"`
	ResolvedAt        *time.Time         `json:"resolved_at,omitempty"`
	ResolvedByID      *string            `json:"resolved_by_id,omitempty"`
	ResolutionOutcome *ResolutionOutcome `json:"resolution_outcome,omitempty"`
	ResolutionNote    *string            `json:"resolution_note,omitempty"`
	EvidenceLinks     []string           `json:"evidence_links,omitempty"`
	Options           []PredictionOption `json:"options,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// HasOption reports whether optionID is one of the prediction's options
func (p *Prediction) HasOption(optionID string) bool {
	for _, o := range p.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the resolve-by deadline has passed at now
func (p *Prediction) IsExpired(now time.Time) bool {
	return now.After(p.ResolveByDatetime)
}

// NewPredictionRequest describes a draft prediction
type NewPredictionRequest struct {
	AuthorID          string      `json:"author_id" validate:"required"`
	ClaimText         string      `json:"claim_text" validate:"required,min=10,max=500"`
	OutcomeType       OutcomeType `json:"outcome_type" validate:"required,oneof=BINARY MULTIPLE_CHOICE"`
	ResolveByDatetime time.Time   `json:"resolve_by_datetime" validate:"required"`
	Options           []string    `json:"options" validate:"omitempty,max=10,dive,required,max=200"`
}

// Resolution carries everything written onto the prediction row when it is resolved
type Resolution struct {
	PredictionID    string
	Status          PredictionStatus
	Outcome         ResolutionOutcome
	ResolvedByID    string
	ResolvedAt      time.Time
	Note            string
	EvidenceLinks   []string
	WinningOptionID string
}

// ResolveRequest is the input of a resolution
type ResolveRequest struct {
	PredictionID    string            `json:"prediction_id" validate:"required"`
	ResolverID      string            `json:"resolver_id" validate:"required"`
	Outcome         ResolutionOutcome `json:"outcome" validate:"required,oneof=correct wrong void unresolvable"`
	WinningOptionID string            `json:"winning_option_id,omitempty"`
	EvidenceLinks   []string          `json:"evidence_links,omitempty" validate:"omitempty,max=20,dive,url"`
	Note            string            `json:"note,omitempty" validate:"max=2000"`
}

// ResolutionSummary describes the ledger effect of one resolution
type ResolutionSummary struct {
	PredictionID   string            `json:"prediction_id"`
	Status         PredictionStatus  `json:"status"`
	Outcome        ResolutionOutcome `json:"outcome"`
	Settled        int               `json:"settled"`
	Winners        int               `json:"winners"`
	Losers         int               `json:"losers"`
	TotalCommitted int64             `json:"total_committed"`
	TotalReturned  int64             `json:"total_returned"`
	NetCU          int64             `json:"net_cu"`
	TotalRSChange  float64           `json:"total_rs_change"`
	Settlements    []Settlement      `json:"settlements"`
}

// Settlement is the per-commitment outcome of a resolution
type Settlement struct {
	CommitmentID string  `json:"commitment_id"`
	UserID       string  `json:"user_id"`
	CuCommitted  int64   `json:"cu_committed"`
	WasCorrect   bool    `json:"was_correct"`
	CuReturned   int64   `json:"cu_returned"`
	RsChange     float64 `json:"rs_change"`
	RsAfter      float64 `json:"rs_after"`
}
