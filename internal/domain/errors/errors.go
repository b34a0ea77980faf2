package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyQuery is returned when a query is blank after trimming.
// Callers surface it as a client error.
var ErrEmptyQuery = errors.New("empty query")

// ErrDatasetUnavailable is returned when a search runs against a dataset
// that failed to load. Callers surface it as a server error.
var ErrDatasetUnavailable = errors.New("dataset not loaded")

// LoadStage identifies which step of a dataset load failed
type LoadStage string

const (
	StageOpen   LoadStage = "open"
	StageFormat LoadStage = "format"
	StageHeader LoadStage = "header"
	StageRead   LoadStage = "read"
)

// LoadError describes a failed dataset load
// (missing file, unreadable file, unsupported or malformed content)
type LoadError struct {
	Path  string    // dataset path as configured
	Stage LoadStage // step that failed
	Cause error     // underlying error (may be nil)
}

func (e *LoadError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("failed to load dataset %s", e.Path))

	if e.Stage != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Stage))
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, " - ")
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

func NewLoadError(path string, stage LoadStage, cause error) *LoadError {
	return &LoadError{
		Path:  path,
		Stage: stage,
		Cause: cause,
	}
}

// IsLoadError reports whether err is (or wraps) a *LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
