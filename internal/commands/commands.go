// Package commands wires the scoreleaf CLI: the viewer plus the small
// utility commands around the score library.
package commands

import (
	"github.com/spf13/cobra"
)

// New builds the root command. Running scoreleaf with a score file argument
// opens the viewer directly; bare invocation prints help.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoreleaf [score file]",
		Short: "Paged sheet-music reading in the terminal.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runView(args[0])
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches all subcommands to the root.
func AddCommands(topLevel *cobra.Command) {
	addView(topLevel)
	addList(topLevel)
	addCheck(topLevel)
	addInit(topLevel)
	addVersion(topLevel)
}
