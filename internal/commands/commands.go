// Package commands builds the proofmark command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/commands/options"
)

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	global := &options.GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "proofmark",
		Short: options.Wrap80("Edit prose while a language model checks it against a style guide."),
		Long: options.Wrap80("proofmark is a terminal editor for prose. While you type, every rule " +
			"of the selected style guide is sent to a language model and the sentences " +
			"that break a rule are highlighted, with an explanation card beside the text."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddGlobalArgs(cmd, global)

	AddCommands(cmd, global)
	return cmd
}

// AddCommands attaches the subcommands to topLevel.
func AddCommands(topLevel *cobra.Command, global *options.GlobalOptions) {
	addEdit(topLevel, global)
	addCheck(topLevel, global)
	addRules(topLevel, global)
	addKey(topLevel, global)
	addConfig(topLevel, global)
	addVersion(topLevel)
}
