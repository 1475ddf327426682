package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRedemptionCode returns a 16-character lowercase hex code generated from
// 8 bytes of cryptographically secure random data. Codes are random, not
// globally unique by construction; uniqueness within a purchase batch follows
// from the 64-bit entropy.
func NewRedemptionCode() (string, error) {
	return randomHex(8)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
