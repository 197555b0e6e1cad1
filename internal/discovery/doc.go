// Package discovery finds the candidate files of a source tree.
//
// Discovery runs two read-only passes over the tree:
//   - BuildIgnoreIndex harvests the patterns of every .gitignore, keyed by
//     the directory holding it
//   - Walk lists the files that survive the ExcludeSet and the IgnoreIndex,
//     in traversal order
//
// Both passes prune .git directories and directories rejected by the
// ExcludeSet. Ignore patterns are plain strings: exact, prefix and suffix
// matching only, no glob or negation semantics.
package discovery
