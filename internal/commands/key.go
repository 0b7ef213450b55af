package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/commands/options"
)

func addKey(topLevel *cobra.Command, global *options.GlobalOptions) {
	var clearKey bool

	cmd := &cobra.Command{
		Use:   "key [api-key|-]",
		Short: "Save, clear or show the stored API key.",
		Long: options.Wrap80("Save the API key the editor sends requests with. A key set in the " +
			"config file or the environment takes precedence. With - the key is read from " +
			"standard input; without an argument the stored key is shown masked."),
		Example: `
proofmark key sk-ant-...
pass show anthropic | proofmark key -
proofmark key --clear
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.Config(cmd)
			if err != nil {
				return err
			}
			st, err := options.Store(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case clearKey:
				if err := st.SetAPIKey(""); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, "API key cleared")
				return nil

			case len(args) == 0:
				key, ok := st.APIKey()
				if !ok {
					_, _ = color.New(color.Faint).Fprintln(out, "no API key stored")
					return nil
				}
				_, _ = fmt.Fprintln(out, mask(key))
				return nil
			}

			key := args[0]
			if key == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("empty API key; use --clear to remove the stored one")
			}
			if err := st.SetAPIKey(key); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "API key saved")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearKey, "clear", false,
		"Remove the stored key.")

	topLevel.AddCommand(cmd)
}

// mask keeps the first and last four characters of key.
func mask(key string) string {
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}
