// Package service runs note operations end to end: resolve where notes live,
// load the file, apply at most one change, and write it back.
package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-ports/dirnotes/internal/config"
	"github.com/go-ports/dirnotes/internal/notes"
	"github.com/go-ports/dirnotes/internal/redaction"
)

// Options selects the files a Service works with. Empty fields fall back to
// the usual resolution order in package config.
type Options struct {
	NotesFile  string
	ConfigFile string

	// Getwd replaces os.Getwd when deriving directory context keys.
	Getwd func() (string, error)
}

// Service serializes note operations against one notes file.
type Service struct {
	NotesFile   string
	NotesSource string
	ConfigFile  string
	Settings    *config.Settings

	redactor  *redaction.Redactor
	storeOpts []notes.Option
	mu        sync.Mutex
}

// AddResult describes a stored note.
type AddResult struct {
	ID  int
	Key string
}

// Listing is the content of one context.
type Listing struct {
	Key   string
	Notes []notes.Note
}

// Global reports whether the listing is of the global context.
func (l *Listing) Global() bool { return l.Key == notes.GlobalKey }

// New resolves files and settings. An unresolvable notes file location is an
// environment error; a missing settings file just means defaults.
func New(opts Options) (*Service, error) {
	notesFile, source, err := config.ResolveNotesFile(opts.NotesFile)
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	settings := config.Default()
	cfgPath, err := config.ResolveConfigFile(opts.ConfigFile)
	switch {
	case err == nil:
		if settings, err = config.Load(cfgPath); err != nil {
			return nil, fmt.Errorf("service.New: load settings: %w", err)
		}
	case opts.ConfigFile == "" && notes.KindOf(err) == notes.KindEnvironment:
		slog.Debug("no settings file location, using defaults", "err", err)
	default:
		return nil, fmt.Errorf("service.New: %w", err)
	}

	s := &Service{
		NotesFile:   notesFile,
		NotesSource: source,
		ConfigFile:  cfgPath,
		Settings:    settings,
	}

	s.storeOpts = append(s.storeOpts, notes.WithSymlinkResolution(settings.ResolveSymlinks))
	if opts.Getwd != nil {
		s.storeOpts = append(s.storeOpts, notes.WithGetwd(opts.Getwd))
	}

	if settings.RedactSecrets {
		patterns, err := redaction.LoadPatterns(settings.IgnorePath(cfgPath))
		if err != nil {
			return nil, fmt.Errorf("service.New: load redaction patterns: %w", err)
		}
		s.redactor = redaction.New(patterns)
	}

	return s, nil
}

// open loads a fresh copy of the notes file. Each operation reloads so a
// long-lived caller never writes back a stale collection.
func (s *Service) open() *notes.Store {
	return notes.Open(s.NotesFile, s.storeOpts...)
}

// Add stores text in scope and persists the file. The note is only reported
// as added once the save succeeded.
func (s *Service) Add(scope notes.Scope, text string) (*AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redactor != nil {
		text = s.redactor.Redact(text)
	}

	st := s.open()
	key, id, err := st.Add(scope, text)
	if err != nil {
		return nil, err
	}
	if err := st.Save(); err != nil {
		return nil, err
	}
	slog.Debug("note added", "context", key, "id", id)
	return &AddResult{ID: id, Key: key}, nil
}

// Remove deletes note id from scope and persists the file. Domain failures
// (unknown context or id) leave the file untouched and return the key when
// it could be derived.
func (s *Service) Remove(scope notes.Scope, id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.open()
	key, err := st.Remove(scope, id)
	if err != nil {
		return key, err
	}
	if err := st.Save(); err != nil {
		return key, err
	}
	slog.Debug("note removed", "context", key, "id", id)
	return key, nil
}

// List returns the notes of scope. It never writes.
func (s *Service) List(scope notes.Scope) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, list, err := s.open().List(scope)
	if err != nil {
		return nil, err
	}
	return &Listing{Key: key, Notes: list}, nil
}
