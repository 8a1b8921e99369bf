package notes

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scope selects the context an operation applies to.
type Scope struct {
	Global bool
	// Dir replaces the working directory as the context key when non-empty.
	Dir string
}

// Store is a collection loaded from a notes file, plus the rules for deriving
// context keys from the execution environment.
type Store struct {
	path            string
	coll            *Collection
	getwd           func() (string, error)
	resolveSymlinks bool
}

// Option configures a Store.
type Option func(*Store)

// WithGetwd replaces os.Getwd for working-directory key derivation.
func WithGetwd(fn func() (string, error)) Option {
	return func(s *Store) { s.getwd = fn }
}

// WithSymlinkResolution makes directory keys canonical by resolving symlinks.
func WithSymlinkResolution(on bool) Option {
	return func(s *Store) { s.resolveSymlinks = on }
}

// Open loads the collection at path. It never fails: a missing or corrupt
// file opens as an empty store.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		getwd: os.Getwd,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.coll = Load(path)
	return s
}

// Path returns the notes file backing the store.
func (s *Store) Path() string { return s.path }

// Collection exposes the in-memory collection.
func (s *Store) Collection() *Collection { return s.coll }

// Key derives the context key for scope.
func (s *Store) Key(scope Scope) (string, error) {
	if scope.Global {
		return GlobalKey, nil
	}

	dir := scope.Dir
	if dir == "" {
		wd, err := s.getwd()
		if err != nil {
			return "", &EnvironmentError{Op: "resolve working directory", Err: err}
		}
		dir = wd
	}
	dir = filepath.Clean(dir)

	if s.resolveSymlinks {
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return "", &EnvironmentError{Op: "resolve working directory", Err: err}
		}
		dir = resolved
	}
	return dir, nil
}

// Add stores text in the scope's context and returns the context key and
// the assigned id. Only the in-memory collection changes; call Save to persist.
func (s *Store) Add(scope Scope, text string) (string, int, error) {
	key, err := s.Key(scope)
	if err != nil {
		return "", 0, fmt.Errorf("add note: %w", err)
	}
	id, err := s.coll.Add(key, text)
	return key, id, err
}

// Remove deletes note id from the scope's context and returns the context key.
// Only the in-memory collection changes; call Save to persist.
func (s *Store) Remove(scope Scope, id int) (string, error) {
	key, err := s.Key(scope)
	if err != nil {
		return "", fmt.Errorf("remove note: %w", err)
	}
	return key, s.coll.Remove(key, id)
}

// List returns the context key for scope and its notes in id order.
func (s *Store) List(scope Scope) (string, []Note, error) {
	key, err := s.Key(scope)
	if err != nil {
		return "", nil, fmt.Errorf("list notes: %w", err)
	}
	return key, s.coll.List(key), nil
}

// Save writes the whole collection back to the notes file.
func (s *Store) Save() error {
	return Save(s.path, s.coll)
}
