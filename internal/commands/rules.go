package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/commands/options"
	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/printers"
)

func addRules(topLevel *cobra.Command, global *options.GlobalOptions) {
	oo := &options.OutputOptions{}
	var names, dump bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the style guides and their rules.",
		Example: `
proofmark rules
proofmark rules --names
proofmark rules --yaml > ~/.config/proofmark/styleguides.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.Config(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			guides, err := config.LoadStyleGuides(cfg.StyleGuides.File)
			if err != nil {
				return oo.HandleError(err)
			}
			selected := cfg.StyleGuides.Selected
			if st, err := options.Store(cfg); err == nil {
				if r, err := st.Get("styleguideIndex"); err == nil && r.Exists() {
					selected = int(r.Int())
				}
			}
			_, selected, _ = config.SelectGuide(guides, selected)

			out := cmd.OutOrStdout()
			switch {
			case dump:
				data, err := config.MarshalStyleGuides(guides)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case oo.JSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Selected int                 `json:"selected"`
					Guides   []config.StyleGuide `json:"guides"`
				}{selected, guides})
			default:
				printers.Guides(out, guides, selected, !names)
				return nil
			}
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&names, "names", false,
		"List guide names only.")
	cmd.Flags().BoolVar(&dump, "yaml", false,
		"Print the guides as a style-guide file.")

	topLevel.AddCommand(cmd)
}
