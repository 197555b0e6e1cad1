package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// EngineVersion is mixed into every skeleton key. Bump it whenever a
// skeletonizer changes its output so stale entries stop matching.
const EngineVersion = "1"

// PrefixSkeleton is the key prefix for skeleton entries
const PrefixSkeleton = "skeleton"

// ContentHash returns the hex SHA256 of the engine version and content
func ContentHash(content string) string {
	h := sha256.New()
	h.Write([]byte(EngineVersion))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// SkeletonKey generates the cache key of the skeleton of content
func SkeletonKey(language, content string) string {
	return PrefixSkeleton + ":" + language + ":" + ContentHash(content)
}
