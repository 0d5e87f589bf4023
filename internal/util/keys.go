package util

import (
	"crypto/sha256"
	"fmt"
)

// ViewKey returns a deterministic storage key for a canonical filter
// encoding: prefix + ":" + first 16 hex chars of sha256(canonical).
// Equal canonical encodings always yield equal keys, so equivalent filter
// specifications share one cache slot regardless of how they were spelled.
func ViewKey(prefix, canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s:%x", prefix, sum)[:len(prefix)+1+16]
}
