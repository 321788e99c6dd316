// Package testutil holds shared fixtures for use in tests only.
package testutil

// Test encryption keys. Raw key material for AES-128/256.
const (
	TestEncryptionKey    = "WmZq4t7w!z%C*F-JaNdRgUkXp2s5v8y/"
	TestEncryptionKey128 = "1111111111111111"
)
