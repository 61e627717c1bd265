package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoice_SameSide(t *testing.T) {
	assert.True(t, BinaryChoice(true).SameSide(BinaryChoice(true)))
	assert.False(t, BinaryChoice(true).SameSide(BinaryChoice(false)))
	assert.True(t, OptionChoice("a").SameSide(OptionChoice("a")))
	assert.False(t, OptionChoice("a").SameSide(OptionChoice("b")))
	assert.False(t, BinaryChoice(false).SameSide(OptionChoice("")), "different kinds never share a side")
}

func TestChoice_Columns(t *testing.T) {
	b, o := BinaryChoice(false).Columns()
	require.NotNil(t, b)
	assert.False(t, *b)
	assert.Nil(t, o)

	b, o = OptionChoice("opt-1").Columns()
	assert.Nil(t, b)
	require.NotNil(t, o)
	assert.Equal(t, "opt-1", *o)

	b, o = Choice{}.Columns()
	assert.Nil(t, b)
	assert.Nil(t, o)
}

func TestChoiceFromColumns_RejectsAmbiguousRows(t *testing.T) {
	yes := true
	opt := "opt-1"

	_, err := ChoiceFromColumns(&yes, &opt)
	assert.ErrorIs(t, err, ErrLedgerInvariant)

	_, err = ChoiceFromColumns(nil, nil)
	assert.ErrorIs(t, err, ErrLedgerInvariant)

	c, err := ChoiceFromColumns(&yes, nil)
	require.NoError(t, err)
	v, ok := c.Binary()
	assert.True(t, ok)
	assert.True(t, v)
}

func TestChoice_JSONUsesSchemaFieldNames(t *testing.T) {
	data, err := json.Marshal(OptionChoice("opt-9"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"option_id":"opt-9"}`, string(data))

	var c Choice
	require.NoError(t, json.Unmarshal([]byte(`{"binary_choice":false}`), &c))
	assert.Equal(t, OutcomeTypeBinary, c.Kind())
	assert.Equal(t, "no", c.String())
}

func TestResolutionOutcome_TerminalStatus(t *testing.T) {
	cases := map[ResolutionOutcome]PredictionStatus{
		OutcomeCorrect:      PredictionStatusResolvedCorrect,
		OutcomeWrong:        PredictionStatusResolvedWrong,
		OutcomeVoid:         PredictionStatusVoid,
		OutcomeUnresolvable: PredictionStatusUnresolvable,
	}
	for outcome, want := range cases {
		got, ok := outcome.TerminalStatus()
		assert.True(t, ok, outcome)
		assert.Equal(t, want, got)
		assert.True(t, got.IsTerminal())
		assert.False(t, got.IsOpen())
	}

	_, ok := ResolutionOutcome("maybe").TerminalStatus()
	assert.False(t, ok)
}
