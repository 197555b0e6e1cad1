package discovery

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/smashy/internal/domain"
)

const (
	gitDirName    = ".git"
	gitIgnoreName = ".gitignore"
)

// IgnoreIndex maps a root-relative directory ("." for the root) to the
// patterns of the .gitignore it holds. It is read-only once built.
type IgnoreIndex struct {
	patterns map[string][]string
}

// NewIgnoreIndex builds an index from a ready-made mapping
func NewIgnoreIndex(patterns map[string][]string) *IgnoreIndex {
	cp := make(map[string][]string, len(patterns))
	for dir, list := range patterns {
		cp[dir] = append([]string(nil), list...)
	}
	return &IgnoreIndex{patterns: cp}
}

// BuildIgnoreIndex runs the first discovery pass over root
func BuildIgnoreIndex(ctx context.Context, root string, excludes ExcludeSet) (*IgnoreIndex, error) {
	idx := &IgnoreIndex{patterns: make(map[string][]string)}

	err := walkTree(ctx, root, excludes, func(absPath, relPath string, d fs.DirEntry) error {
		if d.Name() != gitIgnoreName || !d.Type().IsRegular() {
			return nil
		}
		lines, err := readPatterns(absPath)
		if err != nil {
			return domain.NewWalkError(absPath, err)
		}
		idx.patterns[path.Dir(relPath)] = lines
		return nil
	})
	if err != nil {
		return idx, err
	}

	return idx, nil
}

// readPatterns returns the trimmed, non-blank, non-comment lines of a file
func readPatterns(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// Patterns returns the patterns recorded for a root-relative directory
func (idx *IgnoreIndex) Patterns(dir string) []string {
	if idx == nil {
		return nil
	}
	return idx.patterns[dir]
}

// Len returns the number of directories holding patterns
func (idx *IgnoreIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.patterns)
}

// Ignored reports whether a root-relative file path is ignored.
//
// Starting at the file's directory and ascending to the root, each level's
// own patterns are tested against the path relative to that level. The
// first level with a match wins; ancestor patterns are never merged into
// descendants.
func (idx *IgnoreIndex) Ignored(relPath string) bool {
	if idx == nil || len(idx.patterns) == 0 {
		return false
	}

	dir := path.Dir(relPath)
	for {
		if patterns, ok := idx.patterns[dir]; ok {
			rel := relativeTo(dir, relPath)
			for _, p := range patterns {
				if matchPattern(p, rel) {
					return true
				}
			}
		}
		if dir == "." {
			return false
		}
		dir = path.Dir(dir)
	}
}

func relativeTo(dir, relPath string) string {
	if dir == "." {
		return relPath
	}
	return strings.TrimPrefix(relPath, dir+"/")
}

// matchPattern applies the four supported match forms
func matchPattern(p, rel string) bool {
	return rel == p ||
		(strings.HasSuffix(p, "/") && strings.HasPrefix(rel, p)) ||
		strings.HasPrefix(rel, p+"/") ||
		strings.HasSuffix(rel, "/"+p)
}

// visitFunc receives every non-directory entry that survives pruning
type visitFunc func(absPath, relPath string, d fs.DirEntry) error

// walkTree is the traversal shared by both passes. It prunes .git
// directories and directories rejected by excludes, and reports I/O
// errors as domain.WalkError.
func walkTree(ctx context.Context, root string, excludes ExcludeSet, visit visitFunc) error {
	return filepath.WalkDir(root, func(absPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return domain.NewWalkError(absPath, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NewWalkError(absPath, ctxErr)
		}

		rel, relErr := filepath.Rel(root, absPath)
		if relErr != nil {
			return domain.NewWalkError(absPath, relErr)
		}
		rel = domain.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == gitDirName || excludes.Matches(rel) {
				return fs.SkipDir
			}
			return nil
		}

		return visit(absPath, rel, d)
	})
}
