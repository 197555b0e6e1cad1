package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// CandidateFile is a file that survived exclude and ignore filtering
type CandidateFile struct {
	// AbsPath is the absolute filesystem path
	AbsPath string
	// RelPath is the root-relative path, always '/'-separated
	RelPath string
}

// NewCandidateFile builds a candidate from a root and a path below it
func NewCandidateFile(root, absPath string) (CandidateFile, error) {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return CandidateFile{}, err
	}
	return CandidateFile{AbsPath: absPath, RelPath: ToSlash(rel)}, nil
}

// Ext returns the lower-cased extension of the file, including the dot
func (c CandidateFile) Ext() string {
	return strings.ToLower(path.Ext(c.RelPath))
}

// ProcessedFile is the final content emitted for one candidate
type ProcessedFile struct {
	RelPath string
	Content string
	// Skeleton is true when Content was produced by a skeletonizer
	Skeleton bool
}

// Document is the ordered set of processed files of one run.
// Order equals candidate discovery order.
type Document struct {
	Files []ProcessedFile
}

// Len returns the number of files in the document
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Files)
}

// ToSlash converts a path to '/' separators regardless of the host
// convention, including backslashes produced on other platforms.
func ToSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
}
