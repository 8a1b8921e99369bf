// Package shared holds the state passed from the root command to subcommands.
package shared

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-ports/dirnotes/internal/notes"
	"github.com/go-ports/dirnotes/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// NotesFile overrides the notes file.
	// When empty, resolution falls through to NOTES_FILE env var → ~/.notes.json.
	NotesFile string
	// ConfigFile overrides the settings file.
	ConfigFile string
	// Global selects the global context instead of the working directory.
	Global bool
}

// Scope returns the note scope selected by the flags.
func (c *Context) Scope() notes.Scope {
	return notes.Scope{Global: c.Global}
}

// Service builds the note service and installs a stderr logger at the
// configured level.
func (c *Context) Service() (*service.Service, error) {
	svc, err := service.New(service.Options{
		NotesFile:  c.NotesFile,
		ConfigFile: c.ConfigFile,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: svc.Settings.SlogLevel(),
	})))
	return svc, nil
}

// ReportDomainError prints lookup failures as a one-line message and swallows
// them; anything else is returned so the process exits non-zero.
func ReportDomainError(w io.Writer, err error) error {
	if notes.IsDomain(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil
	}
	return err
}
