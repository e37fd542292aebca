package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores encoded analysis results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from its parts (analyzer name, model, text, ...)
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "commitmood:v1:" + hex.EncodeToString(h.Sum(nil))
}
