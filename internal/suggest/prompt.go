package suggest

import "strings"

// NoSuggestions is the reply a model gives when a rule has nothing to flag.
const NoSuggestions = "N/A"

// BuildPrompt composes the request for checking marked writing against one
// rule of the style guide.
func BuildPrompt(rules []string, marked, rule string) string {
	guide := make([]string, len(rules))
	for i, r := range rules {
		guide[i] = "<rule>\n" + r + "\n</rule>"
	}

	var b strings.Builder
	b.WriteString("You are checking some writing against the following style guide:\n\n")
	b.WriteString("<style-guide>\n")
	b.WriteString(strings.Join(guide, "\n\n"))
	b.WriteString("\n</style-guide>\n\n")
	b.WriteString("Here is the writing, marked with sentence indices:\n\n")
	b.WriteString("<writing>\n")
	b.WriteString(marked)
	b.WriteString("\n</writing>\n\n")
	b.WriteString("Currently, you are only checking the writing against the following rule from the style guide:\n\n")
	b.WriteString("<rule>\n")
	b.WriteString(rule)
	b.WriteString("\n</rule>\n\n")
	b.WriteString(`First, decide if there are any suggestions for the writing relevant to the rule. If not, respond only with "N/A". Otherwise, output each individual fine-grained suggestion in the following format:`)
	b.WriteString("\n\n")
	b.WriteString("Sentence range: {start}-{end}\n")
	b.WriteString("Title: {title}\n")
	b.WriteString("Content: {content}\n\n")
	b.WriteString("Phrase your suggestion content pointedly and tersely.\n\n")
	b.WriteString("Begin.")
	return b.String()
}
