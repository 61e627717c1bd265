package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"sentinel", ErrInsufficientFunds, KindInsufficientFunds},
		{"wrapped", fmt.Errorf("%w: available 5, requested 10", ErrInsufficientFunds), KindInsufficientFunds},
		{"double wrapped", fmt.Errorf("create: %w", fmt.Errorf("%w: p1", ErrPredictionNotFound)), KindNotFound},
		{"conflict", ErrAlreadyResolved, KindConflict},
		{"forbidden", ErrResolverForbidden, KindForbidden},
		{"storage failure", errors.New("connection reset"), KindInternal},
		{"context", context.Canceled, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrappedSentinelsKeepIdentity(t *testing.T) {
	err := fmt.Errorf("%w: status PENDING", ErrPredictionNotActive)

	assert.ErrorIs(t, err, ErrPredictionNotActive)
	assert.NotErrorIs(t, err, ErrPredictionNotOpen)
	assert.Contains(t, err.Error(), ErrMsgPredictionNotActive)
}

func TestErrorKind_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, KindInsufficientFunds.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, KindForbidden.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}
