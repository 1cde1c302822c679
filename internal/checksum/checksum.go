// Package checksum fingerprints file contents so the watch loop can tell
// real edits apart from no-op writes.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns data's SHA-256 digest as a hex string.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
