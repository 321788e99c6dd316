package operator

import (
	"errors"

	"github.com/veil-io/veil/internal/cryptoutil"
)

// Decrypt restores a slice previously produced by Encrypt. The reversible
// counterpart in the catalog's deanonymizing direction.
type Decrypt struct{}

func (Decrypt) Name() string { return "decrypt" }

func (Decrypt) Kind() Kind { return Reversible }

// Validate requires a key param that resolves to 128, 192 or 256 bits.
func (Decrypt) Validate(params Params) error {
	return validateKeyParam(params)
}

func (Decrypt) Operate(text string, params Params) (string, error) {
	key, _ := stringParam(params, ParamKey)
	keyBytes, err := cryptoutil.ResolveKey(key)
	if err != nil {
		return "", NewParamError(ParamKey, "must be of length 128, 192 or 256 bits", nil)
	}
	plaintext, err := cryptoutil.Decrypt(keyBytes, text)
	switch {
	case errors.Is(err, cryptoutil.ErrMalformedToken):
		return "", NewParamError("text", "is not a token produced by the encrypt operator", nil)
	case errors.Is(err, cryptoutil.ErrDecryptionFailed):
		return "", NewParamError(ParamKey, "does not match the key used to produce the token", nil)
	case err != nil:
		return "", err
	}
	return plaintext, nil
}
