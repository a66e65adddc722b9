package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<sha256 of the JSON-encoded parts>". Parts are
// streamed into the hash so large option structs are never buffered twice.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	// Encoding plain option structs and strings cannot fail.
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
