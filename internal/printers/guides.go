package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dshills/proofmark/internal/config"
)

// Guides prints the style guides and their rules. The selected guide is
// marked with an asterisk.
func Guides(w io.Writer, guides []config.StyleGuide, selected int, withRules bool) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	tbl.AddRow("", bold.Sprint("#"), bold.Sprint("Guide"), bold.Sprint("Rules"))
	for i, g := range guides {
		mark := ""
		if i == selected {
			mark = "*"
		}
		tbl.AddRow(mark, i, g.Name, len(g.Rules))
		if !withRules {
			continue
		}
		for j, rule := range g.Rules {
			tbl.AddRow("", "", faint.Sprintf("%d.", j+1), rule)
		}
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)
}
