package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/commands/options"
)

func addConfig(topLevel *cobra.Command, global *options.GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		Example: `
proofmark config
PROOFMARK_AI_PROVIDER=openai proofmark config
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.Config(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
