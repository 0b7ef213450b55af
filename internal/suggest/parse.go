package suggest

import (
	"strconv"
	"strings"

	"github.com/dshills/proofmark/internal/engine/ranges"
)

// Field prefixes of a reply block.
const (
	rangePrefix   = "Sentence range:"
	titlePrefix   = "Title:"
	contentPrefix = "Content:"
)

// Block is one suggestion as written in a model reply. Start and End are
// sentence ordinals. A missing ordinal reads as 0; HasStart and HasEnd are
// false only when the field is present but not a number.
type Block struct {
	Start, End       int
	HasStart, HasEnd bool
	Title            string
	Content          string
}

// ParseReply splits a reply into blocks. A reply of exactly "N/A" has none.
// Text before the first "Sentence range:" line is ignored unless the reply has
// no such line, in which case the whole reply is a single block.
func ParseReply(reply string) []Block {
	reply = strings.ReplaceAll(reply, "\r\n", "\n")
	if strings.TrimSpace(reply) == NoSuggestions {
		return nil
	}

	chunks := splitBlocks(reply)
	blocks := make([]Block, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, parseBlock(c))
	}
	return blocks
}

func splitBlocks(reply string) []string {
	lines := strings.Split(reply, "\n")

	var chunks []string
	var cur []string
	seen := false
	for _, line := range lines {
		if isRangeLine(line) {
			if seen {
				chunks = append(chunks, strings.Join(cur, "\n"))
			}
			seen = true
			cur = cur[:0]
		}
		cur = append(cur, line)
	}
	if !seen {
		return []string{reply}
	}
	return append(chunks, strings.Join(cur, "\n"))
}

func isRangeLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), rangePrefix)
}

func parseBlock(chunk string) Block {
	var b Block

	v, _ := lineValue(chunk, rangePrefix)
	lo, hi, _ := strings.Cut(v, "-")
	b.Start, b.HasStart = ordinal(lo)
	b.End, b.HasEnd = ordinal(hi)
	b.Title, _ = lineValue(chunk, titlePrefix)

	if i := strings.Index(chunk, contentPrefix); i >= 0 {
		b.Content = strings.TrimSpace(chunk[i+len(contentPrefix):])
	}
	return b
}

// lineValue returns the trimmed rest of the line following the first
// occurrence of prefix.
func lineValue(chunk, prefix string) (string, bool) {
	i := strings.Index(chunk, prefix)
	if i < 0 {
		return "", false
	}
	rest := chunk[i+len(prefix):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), true
}

// ordinal parses a sentence number. An empty field is 0.
func ordinal(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Resolve maps blocks onto rune offsets of a text of textLen runes. A block
// spans from the start of its first sentence to the start of the sentence
// after its last one; malformed or unknown sentences fall back to the text's
// bounds.
func Resolve(blocks []Block, offsets OffsetMap, textLen int) []ranges.Finding {
	out := make([]ranges.Finding, 0, len(blocks))
	for _, b := range blocks {
		start, end := 0, textLen
		if b.HasStart {
			if off, ok := offsets.Offset(b.Start); ok {
				start = off
			}
		}
		if b.HasEnd {
			if off, ok := offsets.Offset(b.End + 1); ok {
				end = off
			}
		}

		start = min(max(start, 0), textLen)
		end = min(max(end, start), textLen)
		out = append(out, ranges.Finding{
			Start:   start,
			End:     end,
			Title:   b.Title,
			Content: b.Content,
		})
	}
	return out
}
