package operator

import (
	"crypto/md5" //nolint:gosec // md5 offered for parity with legacy pipelines, not for security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// DefaultHashType is used when no hash_type param is supplied.
const DefaultHashType = "sha256"

// Hash replaces a slice with the hex digest of its contents. One-way:
// the same input always produces the same digest, so hashed output stays
// joinable across documents without exposing the source value.
type Hash struct{}

func (Hash) Name() string { return "hash" }

func (Hash) Kind() Kind { return Irreversible }

// Validate accepts an optional hash_type of sha256, sha512 or md5.
func (Hash) Validate(params Params) error {
	v, ok := params[ParamHashType]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return NewParamError(ParamHashType, "must be a string", v)
	}
	switch s {
	case "sha256", "sha512", "md5":
		return nil
	}
	return NewParamError(ParamHashType, "must be one of sha256, sha512, md5", s)
}

func (Hash) Operate(text string, params Params) (string, error) {
	hashType := DefaultHashType
	if s, ok := stringParam(params, ParamHashType); ok {
		hashType = s
	}
	switch hashType {
	case "sha256":
		sum := sha256.Sum256([]byte(text))
		return hex.EncodeToString(sum[:]), nil
	case "sha512":
		sum := sha512.Sum512([]byte(text))
		return hex.EncodeToString(sum[:]), nil
	case "md5":
		sum := md5.Sum([]byte(text)) //nolint:gosec
		return hex.EncodeToString(sum[:]), nil
	}
	return "", fmt.Errorf("unreachable hash type %q", hashType)
}
