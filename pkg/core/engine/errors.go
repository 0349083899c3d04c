package engine

import (
	"errors"
	"fmt"

	"github.com/moritz155/johanniter/pkg/db"
)

// Kind classifies an engine error so the route layer can map it to a
// user-facing response without inspecting error text.
type Kind string

const (
	// KindValidation marks rejected input (missing mission fields,
	// malformed status values).
	KindValidation Kind = "VALIDATION"
	// KindNotFound marks a squad/mission/token lookup miss within the
	// session scope.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict marks a uniqueness violation (duplicate squad name).
	KindConflict Kind = "CONFLICT"
	// KindStorage marks a persistence failure. The whole operation's
	// transaction has been rolled back when this is returned.
	KindStorage Kind = "STORAGE"
)

// Error is the typed result every engine operation returns on failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func storageErr(err error, message string) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// storeErr maps a store failure to the engine taxonomy: the not-found
// sentinel stays a lookup miss, everything else is a storage failure.
func storeErr(err error, message string) *Error {
	if errors.Is(err, db.ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: message, Err: err}
	}
	return storageErr(err, message)
}

// KindOf returns the Kind of an engine error, or KindStorage for errors
// that did not originate from the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
