// Package printers renders command output for the terminal.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dshills/proofmark/internal/engine/buffer"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/suggest"
)

// excerptWidth bounds the quoted text shown for a suggestion.
const excerptWidth = 48

// Report is the outcome of checking one text.
type Report struct {
	Source      string
	Guide       string
	Text        string
	Suggestions []ranges.Suggestion
	Errors      []*suggest.RuleError
}

// Entry is a suggestion located in its text.
type Entry struct {
	ID      int    `json:"id"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// Entries locates every suggestion. Line and column are 1-based.
func (r *Report) Entries() []Entry {
	buf := buffer.NewBufferFromString(r.Text)
	out := make([]Entry, len(r.Suggestions))
	for i, s := range r.Suggestions {
		p := buf.OffsetToPoint(s.Start)
		out[i] = Entry{
			ID:      s.ID,
			Start:   s.Start,
			End:     s.End,
			Line:    p.Line + 1,
			Column:  p.Column + 1,
			Title:   s.Title,
			Content: s.Content,
			Excerpt: excerpt(buf.Slice(s.Start, s.End)),
		}
	}
	return out
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= excerptWidth {
		return s
	}
	return string(r[:excerptWidth-1]) + "…"
}

// Pretty prints one bordered card per suggestion.
type Pretty struct {
	Width int
}

// Print writes the report.
func (pp *Pretty) Print(w io.Writer, r *Report) {
	width := pp.Width
	if width <= 0 {
		width = 80
	}
	header := lipgloss.NewStyle().Bold(true).Underline(true)
	faint := lipgloss.NewStyle().Faint(true)

	_, _ = fmt.Fprintln(w, header.Render(r.Source)+faint.Render(" · "+r.Guide))
	entries := r.Entries()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, faint.Italic(true).Render(" no suggestions"))
		return
	}

	for i, e := range entries {
		c := lipgloss.Color(r.Suggestions[i].Color.Hex())
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1).
			Width(width - 2)
		title := lipgloss.NewStyle().Bold(true).Foreground(c).Render(orUntitled(e.Title))
		loc := faint.Render(fmt.Sprintf("%d:%d", e.Line, e.Column))
		body := []string{
			title + "  " + loc,
			faint.Italic(true).Render("“" + e.Excerpt + "”"),
		}
		if e.Content != "" {
			body = append(body, "", e.Content)
		}
		_, _ = fmt.Fprintln(w, card.Render(lipgloss.JoinVertical(lipgloss.Left, body...)))
	}
}

// Table prints the suggestions as rows.
type Table struct {
	// MaxColWidth truncates wide cells; 0 keeps them whole.
	MaxColWidth uint
}

// Print writes the report.
func (t *Table) Print(w io.Writer, r *Report) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = t.MaxColWidth
	tbl.Wrap = t.MaxColWidth > 0
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("At"), bold.Sprint("Title"), bold.Sprint("Text"))
	for _, e := range r.Entries() {
		tbl.AddRow(e.ID, fmt.Sprintf("%d:%d", e.Line, e.Column), orUntitled(e.Title), e.Excerpt)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}

// PrintJSON writes the report as one JSON object.
func PrintJSON(w io.Writer, r *Report) error {
	type ruleError struct {
		Rule  int    `json:"rule"`
		Error string `json:"error"`
	}
	out := struct {
		Source      string      `json:"source"`
		Guide       string      `json:"guide"`
		Suggestions []Entry     `json:"suggestions"`
		Errors      []ruleError `json:"errors,omitempty"`
	}{
		Source:      r.Source,
		Guide:       r.Guide,
		Suggestions: r.Entries(),
	}
	for _, e := range r.Errors {
		out.Errors = append(out.Errors, ruleError{Rule: e.Rule, Error: e.Err.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// RuleErrors prints one warning line per failed rule.
func RuleErrors(w io.Writer, errs []*suggest.RuleError) {
	warn := color.New(color.FgYellow)
	for _, e := range errs {
		_, _ = warn.Fprintf(w, "rule %d failed: %v\n", e.Rule+1, e.Err)
	}
}

func orUntitled(s string) string {
	if s == "" {
		return "(untitled)"
	}
	return s
}
