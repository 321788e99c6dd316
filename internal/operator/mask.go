package operator

import (
	"strings"
	"unicode/utf8"
)

// Mask replaces chars_to_mask characters of the slice with masking_char,
// from the start by default or from the end with from_end, leaving the
// rest of the slice intact. Counting is rune-based so multibyte text is
// never split mid-character.
type Mask struct{}

func (Mask) Name() string { return "mask" }

func (Mask) Kind() Kind { return Irreversible }

// Validate requires masking_char (exactly one character) and chars_to_mask
// (a non-negative whole number). from_end is optional and must be a bool.
func (Mask) Validate(params Params) error {
	char, ok := stringParam(params, ParamMaskingChar)
	if !ok {
		return NewParamError(ParamMaskingChar, "must be supplied as a string", params[ParamMaskingChar])
	}
	if utf8.RuneCountInString(char) != 1 {
		return NewParamError(ParamMaskingChar, "must be exactly one character", char)
	}

	count, ok := intParam(params, ParamCharsToMask)
	if !ok {
		return NewParamError(ParamCharsToMask, "must be supplied as a whole number", params[ParamCharsToMask])
	}
	if count < 0 {
		return NewParamError(ParamCharsToMask, "must be non-negative", count)
	}

	if v, present := params[ParamFromEnd]; present {
		if _, ok := boolParam(params, ParamFromEnd); !ok {
			return NewParamError(ParamFromEnd, "must be a bool", v)
		}
	}
	return nil
}

func (Mask) Operate(text string, params Params) (string, error) {
	char, _ := stringParam(params, ParamMaskingChar)
	count, _ := intParam(params, ParamCharsToMask)
	fromEnd, _ := boolParam(params, ParamFromEnd)

	runes := []rune(text)
	// A count beyond the slice masks the whole slice; the slice length is
	// unknown at validation time.
	if count > len(runes) {
		count = len(runes)
	}
	masked := strings.Repeat(char, count)

	if fromEnd {
		return string(runes[:len(runes)-count]) + masked, nil
	}
	return masked + string(runes[count:]), nil
}
