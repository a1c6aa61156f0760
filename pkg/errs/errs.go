// Package errs holds the error kinds shared by the parser, the preprocessing pipeline and
// classifier dispatch. Callers branch on them with errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrParse                = errors.New("invalid annotation file")
	ErrEmptyCluster         = errors.New("no coding sequence with a translation")
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrBackendFailure       = errors.New("classifier backend failed")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrEmbedding            = errors.New("embedding failed")
	ErrUnknownBackend       = errors.New("unknown classifier backend")
)

// ParseError reports where a record stopped making sense. Line is 1-based, 0 when unknown.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ShapeMismatchError is raised when a vector does not have the length a stage was fitted for.
type ShapeMismatchError struct {
	Stage string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch at %s: want %d, got %d", e.Stage, e.Want, e.Got)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// BackendFailure wraps anything a classifier raised while predicting.
type BackendFailure struct {
	Backend string
	Err     error
}

func (e *BackendFailure) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendFailure) Is(target error) bool { return target == ErrBackendFailure }

func (e *BackendFailure) Unwrap() error { return e.Err }

// EmbeddingError carries the index (file order among CDS features) of the protein that failed.
type EmbeddingError struct {
	Index int
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding CDS #%d: %v", e.Index, e.Err)
}

func (e *EmbeddingError) Is(target error) bool { return target == ErrEmbedding }

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Kind gives a short stable name for an error, used in API responses and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedExtension):
		return "unsupported_extension"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrEmptyCluster):
		return "empty_cluster"
	case errors.Is(err, ErrEmbedding):
		return "embedding_error"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrUnknownBackend):
		return "unknown_backend"
	case errors.Is(err, ErrBackendFailure):
		return "backend_failure"
	default:
		return "internal"
	}
}
