// Package rootcmd wires the root cobra.Command for the notes CLI binary.
// Run without a subcommand it lists the notes of the selected context.
package rootcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/dirnotes/cmd/notes/add"
	configcmd "github.com/go-ports/dirnotes/cmd/notes/config"
	mcpcmd "github.com/go-ports/dirnotes/cmd/notes/mcp"
	removecmd "github.com/go-ports/dirnotes/cmd/notes/remove"
	"github.com/go-ports/dirnotes/cmd/notes/shared"
	"github.com/go-ports/dirnotes/internal/buildinfo"
	"github.com/go-ports/dirnotes/internal/service"
)

// New creates and returns the root cobra.Command for the notes CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "notes",
		Short:         "Notes attached to directories, or kept globally",
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.VersionLine())

	pf := root.PersistentFlags()
	pf.BoolVarP(&ctx.Global, "global", "g", false, "Use global notes instead of the current directory's")
	pf.StringVar(&ctx.NotesFile, "notes-file", "",
		"Override the notes file (default: $NOTES_FILE env → ~/.notes.json)")
	pf.StringVar(&ctx.ConfigFile, "config", "",
		"Override the settings file (default: $NOTES_CONFIG env → ~/.config/dirnotes/config.yaml)")

	root.AddCommand(
		addcmd.New(ctx).Cmd(),
		removecmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}

func list(cmd *cobra.Command, ctx *shared.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	listing, err := svc.List(ctx.Scope())
	if err != nil {
		return err
	}
	printListing(cmd.OutOrStdout(), listing)
	return nil
}

// printListing renders a context's notes. A context that never existed and
// one whose notes were all removed print the same message.
func printListing(w io.Writer, l *service.Listing) {
	if len(l.Notes) == 0 {
		if l.Global() {
			fmt.Fprintln(w, "No global notes")
		} else {
			fmt.Fprintln(w, "No notes for this directory")
		}
		return
	}

	if l.Global() {
		fmt.Fprintln(w, "Global notes:")
	} else {
		fmt.Fprintf(w, "Notes for %s:\n", l.Key)
	}
	for _, n := range l.Notes {
		fmt.Fprintf(w, "\t%d: %s\n", n.ID, n.Text)
	}
}
