package options

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/config"
)

// GuideOptions selects a style guide by name or index.
type GuideOptions struct {
	Guide string
	Rules []string
}

// AddGuideArgs registers --guide.
func AddGuideArgs(cmd *cobra.Command, o *GuideOptions) {
	cmd.Flags().StringVarP(&o.Guide, "guide", "g", "",
		"Style guide name or index; the configured selection when empty.")
}

// AddRuleArgs registers the repeatable --rule flag.
func AddRuleArgs(cmd *cobra.Command, o *GuideOptions) {
	cmd.Flags().StringArrayVarP(&o.Rules, "rule", "r", nil,
		Wrap80("Check this rule instead of the guide's rules. May be repeated."))
}

// AdHocGuide names the guide built from --rule flags alone.
const AdHocGuide = "ad hoc"

// Select returns the chosen guide. Ad-hoc rules replace the guide's rules;
// without --guide they form a guide of their own.
func (o *GuideOptions) Select(guides []config.StyleGuide, selected int) (config.StyleGuide, bool) {
	if o.Guide == "" && len(o.Rules) > 0 {
		return config.StyleGuide{Name: AdHocGuide, Rules: o.Rules}, true
	}

	var g config.StyleGuide
	var ok bool
	switch {
	case o.Guide == "":
		g, _, ok = config.SelectGuide(guides, selected)
	default:
		if i, err := strconv.Atoi(o.Guide); err == nil {
			if i >= 0 && i < len(guides) {
				g, ok = guides[i], true
			}
			break
		}
		for _, candidate := range guides {
			if strings.EqualFold(candidate.Name, o.Guide) {
				g, ok = candidate, true
				break
			}
		}
	}
	if len(o.Rules) > 0 {
		if !ok {
			g = config.StyleGuide{Name: AdHocGuide}
		}
		g.Rules = o.Rules
		ok = true
	}
	return g, ok
}
