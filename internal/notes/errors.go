package notes

import (
	"errors"
	"fmt"
)

// Kind classifies every error the store can return.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that did not originate here.
	KindUnknown Kind = iota
	// KindEnvironment means the process environment is unusable
	// (home directory unresolvable, working directory gone).
	KindEnvironment
	// KindPersistence means the notes file could not be written.
	KindPersistence
	// KindNoteNotFound means the context exists but the id does not.
	KindNoteNotFound
	// KindContextNotFound means no notes were ever added to the context.
	KindContextNotFound
	// KindIDsExhausted means the context's counter reached MaxID.
	KindIDsExhausted
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindPersistence:
		return "persistence"
	case KindNoteNotFound:
		return "note not found"
	case KindContextNotFound:
		return "context not found"
	case KindIDsExhausted:
		return "ids exhausted"
	default:
		return "unknown"
	}
}

// ErrContextNotFound is returned when removing from a context that has never
// held a note.
var ErrContextNotFound = errors.New("no notes found")

// ErrIDsExhausted is returned when a context has handed out every id up to MaxID.
var ErrIDsExhausted = errors.New("no note ids left in this context")

// NoteNotFoundError is returned when the id is absent from an existing context.
type NoteNotFoundError struct {
	ID int
}

func (e *NoteNotFoundError) Error() string {
	return fmt.Sprintf("note with id %d not found", e.ID)
}

// EnvironmentError wraps failures to resolve the execution environment.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *EnvironmentError) Unwrap() error { return e.Err }

// PersistenceError wraps failures to write the notes file.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save notes to %s: %v", e.Path, e.Err)
}
func (e *PersistenceError) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, looking through wrapping.
func KindOf(err error) Kind {
	var (
		envErr  *EnvironmentError
		perErr  *PersistenceError
		noteErr *NoteNotFoundError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrContextNotFound):
		return KindContextNotFound
	case errors.Is(err, ErrIDsExhausted):
		return KindIDsExhausted
	case errors.As(err, &noteErr):
		return KindNoteNotFound
	case errors.As(err, &envErr):
		return KindEnvironment
	case errors.As(err, &perErr):
		return KindPersistence
	default:
		return KindUnknown
	}
}

// IsDomain reports whether err is a recoverable, user-facing failure.
func IsDomain(err error) bool {
	switch KindOf(err) {
	case KindNoteNotFound, KindContextNotFound, KindIDsExhausted:
		return true
	default:
		return false
	}
}
