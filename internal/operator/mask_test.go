package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskValidate(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		wantField string
	}{
		{
			name:   "valid",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 4},
		},
		{
			name:   "valid with from_end",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 4, ParamFromEnd: true},
		},
		{
			name:   "valid multibyte masking char",
			params: Params{ParamMaskingChar: "•", ParamCharsToMask: 2},
		},
		{
			name:      "missing masking_char",
			params:    Params{ParamCharsToMask: 4},
			wantField: ParamMaskingChar,
		},
		{
			name:      "multi-character masking_char",
			params:    Params{ParamMaskingChar: "**", ParamCharsToMask: 4},
			wantField: ParamMaskingChar,
		},
		{
			name:      "missing chars_to_mask",
			params:    Params{ParamMaskingChar: "*"},
			wantField: ParamCharsToMask,
		},
		{
			name:      "negative chars_to_mask",
			params:    Params{ParamMaskingChar: "*", ParamCharsToMask: -1},
			wantField: ParamCharsToMask,
		},
		{
			name:      "fractional chars_to_mask",
			params:    Params{ParamMaskingChar: "*", ParamCharsToMask: 2.5},
			wantField: ParamCharsToMask,
		},
		{
			name:      "non-bool from_end",
			params:    Params{ParamMaskingChar: "*", ParamCharsToMask: 4, ParamFromEnd: "yes"},
			wantField: ParamFromEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Mask{}.Validate(tt.params)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var paramErr *ParamError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.wantField, paramErr.Field)
		})
	}
}

func TestMaskOperate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		params Params
		want   string
	}{
		{
			name:   "mask from start",
			text:   "0344533346",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 6},
			want:   "******3346",
		},
		{
			name:   "mask from end",
			text:   "0344533346",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 4, ParamFromEnd: true},
			want:   "034453****",
		},
		{
			name:   "zero chars masks nothing",
			text:   "0344533346",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 0},
			want:   "0344533346",
		},
		{
			name:   "count beyond slice masks everything",
			text:   "abc",
			params: Params{ParamMaskingChar: "#", ParamCharsToMask: 100},
			want:   "###",
		},
		{
			name:   "rune-safe on multibyte text",
			text:   "héllo",
			params: Params{ParamMaskingChar: "*", ParamCharsToMask: 2},
			want:   "**llo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mask{}.Operate(tt.text, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
