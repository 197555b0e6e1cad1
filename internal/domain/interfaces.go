package domain

//go:generate mockgen -destination=../mocks/domain_mocks.go -package=mocks . Skeletonizer,Cache

import (
	"context"
	"time"
)

// Skeletonizer condenses source text of one language into its skeleton
type Skeletonizer interface {
	// Language returns the language name (java, python, go, shell)
	Language() string
	// Skeletonize returns the skeleton of src or an error for malformed input
	Skeletonize(src string) (string, error)
}

// Cache defines the interface for skeleton caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key from cache; a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
