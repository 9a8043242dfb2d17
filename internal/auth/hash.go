// Package auth verifies the per-request hash clients send with an update.
//
// The hash is the lowercase hex HMAC-SHA256 of the hostname, keyed with the
// shared secret from the configuration.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrHashMismatch is returned for any hash that does not verify. The message
// is sent to clients as-is and intentionally carries no detail.
var ErrHashMismatch = errors.New("Hashcheck failed")

// Compute returns the expected hash for hostname under secret.
func Compute(hostname, secret string) string {
	return hex.EncodeToString(sum(hostname, secret))
}

// Check verifies hash against hostname and secret in constant time.
func Check(hostname, hash, secret string) error {
	if secret == "" {
		return ErrHashMismatch
	}
	got, err := hex.DecodeString(strings.TrimSpace(hash))
	if err != nil {
		return ErrHashMismatch
	}
	if !hmac.Equal(got, sum(hostname, secret)) {
		return ErrHashMismatch
	}
	return nil
}

func sum(hostname, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(hostname))
	return mac.Sum(nil)
}
