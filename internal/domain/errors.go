package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrReadFailed indicates a candidate file could not be read or decoded
	ErrReadFailed = errors.New("read failed")

	// ErrTransformFailed indicates structural parsing or skeleton editing failed
	ErrTransformFailed = errors.New("transform failed")

	// ErrWalkFailed indicates an I/O error during a directory traversal pass
	ErrWalkFailed = errors.New("walk failed")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrOverlappingEdits indicates two edits of one file partially overlap
	ErrOverlappingEdits = errors.New("overlapping edits")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// ReadError represents an error reading a candidate file
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error for %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrReadFailed
func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed
}

// NewReadError creates a new ReadError
func NewReadError(path string, err error) *ReadError {
	return &ReadError{Path: path, Err: err}
}

// TransformError represents a skeleton extraction failure
type TransformError struct {
	Path     string
	Language string
	Err      error
}

func (e *TransformError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("%s transform failed for %s: %v", e.Language, e.Path, e.Err)
	}
	return fmt.Sprintf("transform failed for %s: %v", e.Path, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransformFailed
func (e *TransformError) Is(target error) bool {
	return target == ErrTransformFailed
}

// NewTransformError creates a new TransformError
func NewTransformError(path, language string, err error) *TransformError {
	return &TransformError{Path: path, Language: language, Err: err}
}

// WalkError represents an I/O error during discovery
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walk error at %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWalkFailed
func (e *WalkError) Is(target error) bool {
	return target == ErrWalkFailed
}

// NewWalkError creates a new WalkError
func NewWalkError(path string, err error) *WalkError {
	return &WalkError{Path: path, Err: err}
}

// WriteError represents an error persisting the final document
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write error: %v", e.Err)
	}
	return fmt.Sprintf("write error for %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWriteFailed
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// IsFileLocal reports whether err only affects a single file and must not
// abort the run.
func IsFileLocal(err error) bool {
	return errors.Is(err, ErrReadFailed) || errors.Is(err, ErrTransformFailed)
}
