// Package signer binds an email address to a server-held secret with
// HMAC-SHA256 so confirmation links can be verified without storing any
// per-request state.
//
// Signatures never expire and carry no nonce: a captured link stays valid.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the lowercase hex HMAC-SHA256 of email keyed by secret.
func Sign(email, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(email))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches Sign(email, secret).
// The comparison is constant-time.
func Verify(email, secret, signature string) bool {
	expected := Sign(email, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
