// Package configcmd implements the `notes config` command group.
package configcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/dirnotes/cmd/notes/shared"
	"github.com/go-ports/dirnotes/internal/config"
)

const configTemplate = `# dirnotes settings

# Resolve symlinks in the working directory before using it as a context key.
# Off keeps keys identical to the path the shell reports.
resolve_symlinks: false

# Scrub secrets (tokens, keys, password=...) out of notes before saving.
redact_secrets: false
# ignore_file: .notesignore    # extra regex patterns, one per line

log_level: warn                # debug | info | warn | error
`

// Command implements `notes config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage settings",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newPath(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	data := map[string]any{
		"resolve_symlinks":  svc.Settings.ResolveSymlinks,
		"redact_secrets":    svc.Settings.RedactSecrets,
		"log_level":         svc.Settings.LogLevel,
		"notes_file":        svc.NotesFile,
		"notes_file_source": svc.NotesSource,
		"settings_file":     svc.ConfigFile,
	}
	if svc.Settings.RedactSecrets {
		data["ignore_file"] = svc.Settings.IgnorePath(svc.ConfigFile)
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, err := config.ResolveConfigFile(ctx.ConfigFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Settings already exist at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing settings")
	return cmd
}

// ---------------------------------------------------------------------------
// config path
// ---------------------------------------------------------------------------

func newPath(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the notes file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _, err := config.ResolveNotesFile(ctx.NotesFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
