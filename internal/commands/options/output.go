package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects how results are printed.
type OutputOptions struct {
	JSON  bool
	Table bool
}

// AddOutputArg registers --json.
func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false,
		"Output as JSON.")
}

// AddTableArg registers --table.
func AddTableArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVarP(&o.Table, "table", "t", false,
		"Output as a table.")
}

// HandleError prints err as a JSON object when JSON output is selected and
// swallows it; otherwise err is returned unchanged.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
