package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache stores rendered documents keyed by RenderKey
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Clear() error
}

// RenderKey identifies one rendering of one revision of a graph
func RenderKey(graphID string, revision uint64, format string) string {
	hash := sha256.Sum256([]byte(graphID + "\x00" + strconv.FormatUint(revision, 10) + "\x00" + format))
	return "quakerdf:render:v1:" + hex.EncodeToString(hash[:])
}
