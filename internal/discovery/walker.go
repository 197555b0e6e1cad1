package discovery

import (
	"context"
	"io/fs"
	"os"

	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/utils"
)

// Walker runs the second discovery pass
type Walker struct {
	excludes ExcludeSet
	index    *IgnoreIndex
	logger   *utils.Logger
}

// WalkerOptions contains options for creating a walker
type WalkerOptions struct {
	Excludes ExcludeSet
	Index    *IgnoreIndex
	Logger   *utils.Logger
}

// NewWalker creates a new walker
func NewWalker(opts WalkerOptions) *Walker {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Walker{
		excludes: opts.Excludes,
		index:    opts.Index,
		logger:   logger,
	}
}

// Walk lists the candidate files below root in traversal order.
// On error the candidates found so far are returned with the error.
func (w *Walker) Walk(ctx context.Context, root string) ([]domain.CandidateFile, error) {
	var candidates []domain.CandidateFile

	err := walkTree(ctx, root, w.excludes, func(absPath, relPath string, d fs.DirEntry) error {
		name := d.Name()
		if name == gitIgnoreName || name == gitDirName {
			return nil
		}
		if !isFileEntry(absPath, d) {
			return nil
		}
		if w.excludes.Matches(relPath) {
			w.logger.Debug().Str("file", relPath).Msg("Excluded")
			return nil
		}
		if w.index.Ignored(relPath) {
			w.logger.Debug().Str("file", relPath).Msg("Ignored by .gitignore")
			return nil
		}

		candidates = append(candidates, domain.CandidateFile{
			AbsPath: absPath,
			RelPath: relPath,
		})
		return nil
	})

	return candidates, err
}

// Walk runs both discovery passes over root
func Walk(ctx context.Context, root string, excludes ExcludeSet) ([]domain.CandidateFile, error) {
	index, err := BuildIgnoreIndex(ctx, root, excludes)
	if err != nil {
		return nil, err
	}
	return NewWalker(WalkerOptions{Excludes: excludes, Index: index}).Walk(ctx, root)
}

// isFileEntry accepts regular files and symlinks that resolve to one
func isFileEntry(absPath string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(absPath)
	return err == nil && info.Mode().IsRegular()
}
