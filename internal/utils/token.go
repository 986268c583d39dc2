package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand" // secure random number generation
	"encoding/hex"
	"fmt"
	"time"
)

// NewSessionToken mints an opaque admin session token. The owning account
// id and a nanosecond timestamp make collisions implausible even across
// restarts; the random suffix makes the token unguessable. The token is
// stored verbatim in the admin_sessions table and presented by the client
// on every authenticated request.
func NewSessionToken(accountID string) (string, error) {
	suffix, err := RandomHex(24) // 24 bytes -> 48 hex chars
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%x.%s", accountID, time.Now().UTC().UnixNano(), suffix), nil
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
