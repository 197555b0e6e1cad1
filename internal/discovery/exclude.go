package discovery

import (
	"strings"

	"github.com/quantmind-br/smashy/internal/config"
)

// ExcludeSet is an immutable set of literal substrings that reject paths
type ExcludeSet struct {
	patterns []string
}

// NewExcludeSet returns the fixed defaults unioned with user patterns.
// Empty and duplicate entries are dropped; order is defaults first.
func NewExcludeSet(user []string) ExcludeSet {
	seen := make(map[string]bool, len(config.DefaultExcludes)+len(user))
	patterns := make([]string, 0, len(config.DefaultExcludes)+len(user))

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		patterns = append(patterns, p)
	}

	for _, p := range config.DefaultExcludes {
		add(p)
	}
	for _, p := range user {
		add(p)
	}

	return ExcludeSet{patterns: patterns}
}

// Matches reports whether path contains any pattern as a substring.
// Matching is case-sensitive and not anchored to path segments, so
// "target" also rejects "retargeting/x.go".
func (s ExcludeSet) Matches(path string) bool {
	for _, p := range s.patterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the patterns in the set
func (s ExcludeSet) Patterns() []string {
	out := make([]string, len(s.patterns))
	copy(out, s.patterns)
	return out
}
