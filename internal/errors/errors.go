// Package errors defines the pipeline error taxonomy. Every fatal failure
// carries a kind plus the resource it relates to (collection or sink name)
// so a failed run can be diagnosed from the log alone.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind string

const (
	// KindConnection means the source database was unreachable. Fatal for
	// the whole run.
	KindConnection Kind = "connection"
	// KindCollectionNotFound means a required collection does not exist in
	// the source database. Fatal: downstream stages need all collections.
	KindCollectionNotFound Kind = "collection_not_found"
	// KindSinkWrite means an output sink could not be written. Fatal for
	// that sink only; independent sinks still attempt to complete.
	KindSinkWrite Kind = "sink_write"
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown Kind = "unknown"
)

// PipelineError is a classified pipeline failure.
type PipelineError struct {
	Kind     Kind
	Resource string // collection or sink name
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Resource, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewConnectionError builds a connection failure for the given target.
func NewConnectionError(target string, cause error) *PipelineError {
	return &PipelineError{
		Kind:     KindConnection,
		Resource: target,
		Message:  "source database unreachable",
		Cause:    cause,
	}
}

// NewCollectionNotFoundError builds a missing-collection failure.
func NewCollectionNotFoundError(collection string) *PipelineError {
	return &PipelineError{
		Kind:     KindCollectionNotFound,
		Resource: collection,
		Message:  "collection does not exist in source database",
	}
}

// NewSinkWriteError builds a sink failure for the named sink.
func NewSinkWriteError(sink string, cause error) *PipelineError {
	return &PipelineError{
		Kind:     KindSinkWrite,
		Resource: sink,
		Message:  "failed to write output",
		Cause:    cause,
	}
}

// KindOf returns the kind of err, or KindUnknown when err is not a
// PipelineError (directly or wrapped).
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
