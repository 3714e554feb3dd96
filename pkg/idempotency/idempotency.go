// Package idempotency derives per-stage idempotency keys from a caller
// supplied base key. A retried top-level call re-derives the exact same key
// for each stage, so the remote side can dedupe the side effect, while two
// different stages of the same call never share a key.
package idempotency

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

// Derive combines a base key and a stage name into a deterministic UUID v4
// formatted key. The hash is one-way; the base key cannot be recovered from
// the derived value.
func Derive(baseKey string, stage string) string {
	combined := baseKey
	if stage != "" {
		combined = baseKey + ":" + stage
	}

	sum := sha256.Sum256([]byte(combined))

	var b [16]byte
	copy(b[:], sum[:16])
	// force version 4 and RFC 4122 variant bits so the output is a
	// well-formed UUID the backend accepts in X-Idempotency-Key
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return uuid.UUID(b).String()
}
