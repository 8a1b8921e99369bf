// Package removecmd implements the `notes remove` command.
package removecmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/dirnotes/cmd/notes/shared"
)

// Command implements `notes remove`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the remove command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a note by id from the current directory (or globally with -g)",
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid note id %q", args[0])
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}

	if _, err := svc.Remove(c.ctx.Scope(), id); err != nil {
		return shared.ReportDomainError(cmd.OutOrStdout(), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Note removed")
	return nil
}
