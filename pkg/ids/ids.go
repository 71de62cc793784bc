// Package ids generates the prefixed identifiers used across the platform.
// Every entity ID has the form <kind>_<12 hex chars>; session tokens carry a
// longer random suffix because they act as bearer credentials.
package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	KindUser         = "user"
	KindArtist       = "artist"
	KindTier         = "tier"
	KindContent      = "content"
	KindSubscription = "sub"
	KindTransaction  = "txn"

	sessionPrefix = "session"

	entityHexLen = 12
	tokenHexLen  = 32
)

// New returns a fresh identifier for the given kind, e.g. "user_1a2b3c4d5e6f".
func New(kind string) string {
	return fmt.Sprintf("%s_%s", kind, randomHex(entityHexLen))
}

// NewSessionToken returns an opaque session token, e.g. "session_<32 hex>".
func NewSessionToken() string {
	return fmt.Sprintf("%s_%s", sessionPrefix, randomHex(tokenHexLen))
}

func randomHex(n int) string {
	var out string
	for len(out) < n {
		u := uuid.New()
		out += hex.EncodeToString(u[:])
	}
	return out[:n]
}
