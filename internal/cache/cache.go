// Package cache provides the pluggable result cache. The pipeline
// depends only on the Cache interface; backends are injected.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

// Cache is the keyed store abstraction. Writes are whole-value upserts;
// backends must never expose partial entries.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey derives the cache key for one (identifier, options) pair.
// Options that change the result set are part of the key. UseCache and
// IncludeStats are not: they do not affect the candidate list, and the
// pipeline derives statistics from the cached results on a hit.
func ResultKey(identifier string, opts model.Options) string {
	canonical := fmt.Sprintf("%s|max=%d|min=%d|sub=%s",
		identifier, opts.MaxResults, opts.MinConfidence, opts.SubCollection)
	hash := sha256.Sum256([]byte(canonical))
	return "tgscout:v1:" + hex.EncodeToString(hash[:])
}
