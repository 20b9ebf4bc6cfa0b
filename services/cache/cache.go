package cache

import (
	"time"
)

// CacheService represents a generic expiring key-value cache. The extractor
// uses it as a cross-process fetch cooldown: scheduled one-shot runs share
// no memory, so a failed fetch sets a cooldown key that later runs observe.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
