package output

import (
	"context"
	"io"
	"os"

	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/utils"
)

// Writer persists the final document to a file or a stream
type Writer struct {
	path   string
	stdout io.Writer
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Path of the output file; empty writes to Stdout
	Path string
	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Writer{
		path:   opts.Path,
		stdout: stdout,
	}
}

// Write persists document. Failures are returned as *domain.WriteError.
func (w *Writer) Write(ctx context.Context, document string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewWriteError(w.path, err)
	}

	if w.path == "" {
		if _, err := io.WriteString(w.stdout, document); err != nil {
			return domain.NewWriteError("", err)
		}
		return nil
	}

	path := utils.ExpandPath(w.path)
	if err := utils.EnsureDir(path); err != nil {
		return domain.NewWriteError(path, err)
	}
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		return domain.NewWriteError(path, err)
	}
	return nil
}

// Path returns the output file path, or "" for standard output
func (w *Writer) Path() string {
	return w.path
}

// ToFile reports whether the writer targets a file
func (w *Writer) ToFile() bool {
	return w.path != ""
}
