package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// RenderKey returns the cache key for DOT source rendered into format by
// engine from the Graphviz installation in dir ("" for the embedded or PATH
// one). The directory and DOT text are digested with xxhash; the key stays
// short no matter how large the workspace is.
func RenderKey(engine, dir, format, dot string) string {
	d := xxhash.New()
	_, _ = d.WriteString(dir)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(dot)
	return fmt.Sprintf("render:%s:%s:%016x", engine, format, d.Sum64())
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
