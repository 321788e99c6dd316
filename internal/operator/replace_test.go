package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceWithValue(t *testing.T) {
	got, err := Replace{}.Operate("REPLACE ME", Params{ParamNewValue: "and thank you"})
	require.NoError(t, err)
	assert.Equal(t, "and thank you", got)
}

func TestReplaceFallbackUsesEntityType(t *testing.T) {
	got, err := Replace{}.Operate("REPLACE ME", Params{ParamEntityType: "phone_number"})
	require.NoError(t, err)
	assert.Equal(t, "<PHONE_NUMBER>", got)
}

func TestReplaceValidate(t *testing.T) {
	assert.NoError(t, Replace{}.Validate(Params{}))
	assert.NoError(t, Replace{}.Validate(Params{ParamNewValue: "x"}))

	var paramErr *ParamError
	err := Replace{}.Validate(Params{ParamNewValue: 42})
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, ParamNewValue, paramErr.Field)
}

func TestRedactIsIdempotent(t *testing.T) {
	first, err := Redact{}.Operate("some pii", nil)
	require.NoError(t, err)
	assert.Empty(t, first)

	// Redacting an already-redacted slice stays empty.
	second, err := Redact{}.Operate(first, nil)
	require.NoError(t, err)
	assert.Empty(t, second)
}
