// Package engineerr defines the error taxonomy shared across the RAG engine.
//
// Every engine-level failure is wrapped in an *Error carrying one of the
// Kind values below, so callers (and ultimately an HTTP transport) can
// distinguish programmatic failure classes with errors.Is while still
// getting a human-readable message via Error().
package engineerr

import "errors"

// Kind discriminates the taxonomy of engine failures.
type Kind string

const (
	KindInvalidInput             Kind = "invalid_input"
	KindNoActiveDocument         Kind = "no_active_document"
	KindEmbeddingUnavailable     Kind = "embedding_unavailable"
	KindAnswerUnavailable        Kind = "answer_unavailable"
	KindIndexUnavailable         Kind = "index_unavailable"
	KindVisualizationUnavailable Kind = "visualization_unavailable"
	KindInternal                 Kind = "internal"
)

// Error is a typed error carrying a taxonomy Kind and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, engineerr.ErrXxx) match by Kind, independent of
// the wrapped message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap produces a new *Error of the given kind carrying err as its cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinel values matched with errors.Is against errors produced by Wrap.
var (
	ErrInvalidInput             = New(KindInvalidInput, "invalid input")
	ErrNoActiveDocument         = New(KindNoActiveDocument, "no active document")
	ErrEmbeddingUnavailable     = New(KindEmbeddingUnavailable, "embedding provider unavailable")
	ErrAnswerUnavailable        = New(KindAnswerUnavailable, "chat provider unavailable")
	ErrIndexUnavailable         = New(KindIndexUnavailable, "vector index unavailable")
	ErrVisualizationUnavailable = New(KindVisualizationUnavailable, "visualization unavailable")
	ErrInternal                 = New(KindInternal, "internal error")
)

// As is a thin convenience wrapper over errors.As for extracting the Kind
// of an arbitrary error produced somewhere in the engine.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
