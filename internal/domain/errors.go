package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a domain error for callers that need to map it to a
// status code or a user-facing explanation.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindForbidden         ErrorKind = "forbidden"
	KindInternal          ErrorKind = "internal"
)

// HTTPStatus returns the status code a request handler should answer with.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified domain error. Sentinels below are *Error values so
// errors.Is works on identity and errors.As recovers the kind through any
// amount of %w wrapping.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf reports the kind of err. Unclassified errors (storage failures,
// context cancellation) are Internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgUserNotFound       = "user not found"
	ErrMsgPredictionNotFound = "prediction not found"
	ErrMsgCommitmentNotFound = "commitment not found"

	// Commitment errors
	ErrMsgAlreadyCommitted    = "already committed to this prediction"
	ErrMsgPredictionNotActive = "prediction is not accepting commitment changes"
	ErrMsgInsufficientFunds   = "insufficient CU available"
	ErrMsgSelfCommitment      = "cannot commit to your own prediction"
	ErrMsgInvalidChoice       = "choice does not match prediction outcome type"
	ErrMsgUnknownOption       = "option does not belong to this prediction"
	ErrMsgInvalidAmount       = "CU amount out of range"
	ErrMsgNothingToUpdate     = "at least one field must be provided"

	// Resolution errors
	ErrMsgPredictionNotOpen      = "prediction is not open for resolution"
	ErrMsgAlreadyResolved        = "prediction already resolved"
	ErrMsgInvalidOutcome         = "invalid resolution outcome"
	ErrMsgWinningOptionRequired  = "winning option required for multiple choice predictions"
	ErrMsgWinningOptionForbidden = "winning option not allowed for binary predictions"
	ErrMsgResolverForbidden      = "caller may not resolve predictions"

	// Lifecycle errors
	ErrMsgInvalidTransition = "invalid prediction status transition"
	ErrMsgInvalidPrediction = "invalid prediction"
	ErrMsgDeadlinePassed    = "resolve-by datetime is in the past"

	// Account errors
	ErrMsgUserExists        = "user already exists"
	ErrMsgInvalidAdjustment = "invalid balance adjustment"

	// Invariant errors
	ErrMsgLedgerInvariant = "ledger invariant violated"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Transaction errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound       = newError(KindNotFound, ErrMsgUserNotFound)
	ErrPredictionNotFound = newError(KindNotFound, ErrMsgPredictionNotFound)
	ErrCommitmentNotFound = newError(KindNotFound, ErrMsgCommitmentNotFound)

	ErrAlreadyCommitted    = newError(KindConflict, ErrMsgAlreadyCommitted)
	ErrPredictionNotActive = newError(KindConflict, ErrMsgPredictionNotActive)
	ErrInsufficientFunds   = newError(KindInsufficientFunds, ErrMsgInsufficientFunds)
	ErrSelfCommitment      = newError(KindValidation, ErrMsgSelfCommitment)
	ErrInvalidChoice       = newError(KindValidation, ErrMsgInvalidChoice)
	ErrUnknownOption       = newError(KindValidation, ErrMsgUnknownOption)
	ErrInvalidAmount       = newError(KindValidation, ErrMsgInvalidAmount)
	ErrNothingToUpdate     = newError(KindValidation, ErrMsgNothingToUpdate)

	ErrPredictionNotOpen      = newError(KindConflict, ErrMsgPredictionNotOpen)
	ErrAlreadyResolved        = newError(KindConflict, ErrMsgAlreadyResolved)
	ErrInvalidOutcome         = newError(KindValidation, ErrMsgInvalidOutcome)
	ErrWinningOptionRequired  = newError(KindValidation, ErrMsgWinningOptionRequired)
	ErrWinningOptionForbidden = newError(KindValidation, ErrMsgWinningOptionForbidden)
	ErrResolverForbidden      = newError(KindForbidden, ErrMsgResolverForbidden)

	ErrInvalidTransition = newError(KindConflict, ErrMsgInvalidTransition)
	ErrInvalidPrediction = newError(KindValidation, ErrMsgInvalidPrediction)
	ErrDeadlinePassed    = newError(KindValidation, ErrMsgDeadlinePassed)

	ErrUserExists        = newError(KindConflict, ErrMsgUserExists)
	ErrInvalidAdjustment = newError(KindValidation, ErrMsgInvalidAdjustment)

	ErrLedgerInvariant = newError(KindInternal, ErrMsgLedgerInvariant)

	ErrInvalidInput = newError(KindValidation, ErrMsgInvalidInput)
)
