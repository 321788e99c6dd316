package operator

import (
	"github.com/veil-io/veil/internal/cryptoutil"
)

// Encrypt replaces the slice with an opaque reversible token sealed under
// a caller-supplied key. Decrypt with the same key restores the original
// slice.
type Encrypt struct{}

func (Encrypt) Name() string { return "encrypt" }

func (Encrypt) Kind() Kind { return Reversible }

// Validate requires a key param that resolves to 128, 192 or 256 bits.
func (Encrypt) Validate(params Params) error {
	return validateKeyParam(params)
}

func (Encrypt) Operate(text string, params Params) (string, error) {
	key, _ := stringParam(params, ParamKey)
	keyBytes, err := cryptoutil.ResolveKey(key)
	if err != nil {
		return "", NewParamError(ParamKey, "must be of length 128, 192 or 256 bits", nil)
	}
	token, err := cryptoutil.Encrypt(keyBytes, text)
	if err != nil {
		return "", err
	}
	return token, nil
}

// validateKeyParam is shared by Encrypt and Decrypt: both demand the same
// key shape. The key value itself is never echoed into errors.
func validateKeyParam(params Params) error {
	key, ok := stringParam(params, ParamKey)
	if !ok {
		return NewParamError(ParamKey, "must be supplied as a string", nil)
	}
	if _, err := cryptoutil.ResolveKey(key); err != nil {
		return NewParamError(ParamKey, "must be of length 128, 192 or 256 bits", nil)
	}
	return nil
}
