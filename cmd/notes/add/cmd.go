// Package addcmd implements the `notes add` command.
package addcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/dirnotes/cmd/notes/shared"
)

// Command implements `notes add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add <note text>",
		Short: "Add a note to the current directory (or globally with -g)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}

	res, err := svc.Add(c.ctx.Scope(), strings.Join(args, " "))
	if err != nil {
		return shared.ReportDomainError(cmd.OutOrStdout(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Note added! (id: %d)\n", res.ID)
	return nil
}
