package cryptoutil

import (
	"encoding/hex"
	"fmt"
)

// IsHexString reports whether s consists entirely of hexadecimal characters
// (0-9, a-f, A-F). True for the empty string; callers enforce length.
func IsHexString(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// ResolveKey interprets user-supplied key material as either hex (32, 48 or
// 64 characters, decoding to 16/24/32 bytes) or raw bytes of an admitted
// size. Hex is tried first so a 32-character all-hex string means AES-128,
// not a raw 32-byte AES-256 key.
func ResolveKey(key string) ([]byte, error) {
	switch len(key) {
	case 32, 48, 64:
		if IsHexString(key) {
			decoded, err := hex.DecodeString(key)
			if err != nil {
				return nil, fmt.Errorf("decoding hex key: %w", ErrInvalidKeySize)
			}
			return decoded, nil
		}
	}
	raw := []byte(key)
	if !IsValidKeySize(raw) {
		return nil, fmt.Errorf("key must be 16, 24 or 32 bytes raw, or 32/48/64 hex characters (got %d): %w", len(key), ErrInvalidKeySize)
	}
	return raw, nil
}
