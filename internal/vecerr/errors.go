// Package vecerr defines the error taxonomy shared by every layer of
// vecbase: the indexing core, the entity store, the snapshotter, and the
// HTTP/MCP dispatch layers all surface errors through this package so a
// caller can branch on Kind without parsing strings.
package vecerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the categories the core recognizes.
type Kind string

const (
	NotFound         Kind = "not_found"
	DuplicateId      Kind = "duplicate_id"
	DimensionMismatch Kind = "dimension_mismatch"
	DegenerateVector Kind = "degenerate_vector"
	NotIndexed       Kind = "not_indexed"
	InvalidArgument  Kind = "invalid_argument"
	PersistenceError Kind = "persistence_error"
	Internal         Kind = "internal"
)

// Error wraps an underlying cause with a Kind and the operation that
// produced it, in the teacher's ProviderError idiom.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an *Error with a plain detail string as its cause.
func New(kind Kind, op, detail string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(detail)}
}

// Wrap attaches a Kind and Op to an existing error.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind of err, defaulting to Internal when err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return Internal
	}
	return e.Kind
}
