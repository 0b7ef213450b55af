package suggest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
)

func TestMarkSentences(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		marked  string
		offsets OffsetMap
	}{
		{
			name:    "two sentences",
			text:    "Hello. World.",
			marked:  "【0】 Hello. 【1】 World.",
			offsets: OffsetMap{0: 0, 1: 7},
		},
		{
			name:    "closing quotes",
			text:    `He said "no." Then ”left.” Fine.`,
			marked:  `【0】 He said "no." 【1】 Then ”left.” 【2】 Fine.`,
			offsets: OffsetMap{0: 0, 1: 14, 2: 27},
		},
		{
			name:    "lines",
			text:    "One\nTwo\n\nThree",
			marked:  "【0】 One\n【1】 Two\n\n【2】 Three",
			offsets: OffsetMap{0: 0, 1: 4, 2: 9},
		},
		{
			name:    "leading newline",
			text:    "\nA",
			marked:  "\n【0】 A",
			offsets: OffsetMap{0: 1},
		},
		{
			name:    "no space after period",
			text:    "a.b. c",
			marked:  "【0】 a.b. 【1】 c",
			offsets: OffsetMap{0: 0, 1: 5},
		},
		{
			name:    "runes",
			text:    "Café. Ok.",
			marked:  "【0】 Café. 【1】 Ok.",
			offsets: OffsetMap{0: 0, 1: 6},
		},
		{
			name:    "blank",
			text:    " \n\t",
			marked:  "",
			offsets: OffsetMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marked, offsets := MarkSentences(tt.text)
			if marked != tt.marked {
				t.Errorf("marked = %q, want %q", marked, tt.marked)
			}
			if !reflect.DeepEqual(offsets, tt.offsets) {
				t.Errorf("offsets = %v, want %v", offsets, tt.offsets)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt([]string{"A", "B"}, "【0】 Hi.", "B")

	for _, want := range []string{
		"<style-guide>\n<rule>\nA\n</rule>\n\n<rule>\nB\n</rule>\n</style-guide>",
		"<writing>\n【0】 Hi.\n</writing>",
		"following rule from the style guide:\n\n<rule>\nB\n</rule>",
		`respond only with "N/A"`,
		"Sentence range: {start}-{end}\nTitle: {title}\nContent: {content}",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(p, "You are checking some writing") || !strings.HasSuffix(p, "Begin.") {
		t.Errorf("prompt framing wrong:\n%s", p)
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []Block
	}{
		{"na", "N/A", nil},
		{"na padded", "  N/A\n", nil},
		{
			name:  "single",
			reply: "Sentence range: 0-1\nTitle: Wordy\nContent: Cut it.",
			want:  []Block{{Start: 0, End: 1, HasStart: true, HasEnd: true, Title: "Wordy", Content: "Cut it."}},
		},
		{
			name: "two with preamble",
			reply: "Here you go.\n\nSentence range: 2-2\nTitle: A\nContent: one\n\n" +
				"Sentence range: 3 - 4\nTitle: B\nContent: two\nlines\n",
			want: []Block{
				{Start: 2, End: 2, HasStart: true, HasEnd: true, Title: "A", Content: "one"},
				{Start: 3, End: 4, HasStart: true, HasEnd: true, Title: "B", Content: "two\nlines"},
			},
		},
		{
			name:  "no markers",
			reply: "Title: Loose\nContent: something",
			want:  []Block{{HasStart: true, HasEnd: true, Title: "Loose", Content: "something"}},
		},
		{
			name:  "bad numbers",
			reply: "Sentence range: x-y\nTitle: T",
			want:  []Block{{Title: "T"}},
		},
		{
			name:  "missing end",
			reply: "Sentence range: 3\nContent: c",
			want:  []Block{{Start: 3, HasStart: true, HasEnd: true, Content: "c"}},
		},
		{
			name:  "malformed end",
			reply: "Sentence range: 1-x",
			want:  []Block{{Start: 1, HasStart: true}},
		},
		{
			name:  "crlf",
			reply: "Sentence range: 1-1\r\nTitle: T\r\nContent: C\r\n",
			want:  []Block{{Start: 1, End: 1, HasStart: true, HasEnd: true, Title: "T", Content: "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.reply)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseReply = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	offsets := OffsetMap{0: 0, 1: 7, 2: 13}
	tests := []struct {
		name       string
		block      Block
		start, end int
	}{
		{"first two", Block{Start: 0, End: 1, HasStart: true, HasEnd: true}, 0, 13},
		{"last", Block{Start: 2, End: 2, HasStart: true, HasEnd: true}, 13, 20},
		{"unknown start", Block{Start: 9, End: 0, HasStart: true, HasEnd: true}, 0, 7},
		{"malformed", Block{}, 0, 20},
		{"missing end reads as sentence 0", Block{HasStart: true, HasEnd: true}, 0, 7},
		{"inverted", Block{Start: 2, End: 0, HasStart: true, HasEnd: true}, 13, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve([]Block{tt.block}, offsets, 20)
			if got[0].Start != tt.start || got[0].End != tt.end {
				t.Errorf("Resolve = [%d,%d), want [%d,%d)", got[0].Start, got[0].End, tt.start, tt.end)
			}
		})
	}
}

func TestParseAndResolveDefaults(t *testing.T) {
	text := "Hello. World. Again."
	_, offsets := MarkSentences(text)
	tests := []struct {
		name       string
		reply      string
		start, end int
	}{
		{"missing end", "Sentence range: 0", 0, 7},
		{"empty end", "Sentence range: 1-", 7, 7},
		{"no range line", "Title: T", 0, 7},
		{"malformed end", "Sentence range: 1-x", 7, 20},
		{"malformed start", "Sentence range: x-1", 0, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(ParseReply(tt.reply), offsets, 20)
			if len(got) != 1 || got[0].Start != tt.start || got[0].End != tt.end {
				t.Errorf("got %+v, want [%d,%d)", got, tt.start, tt.end)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	text := "Hello. World. Again."
	m := &llm.Mock{Respond: func(_ context.Context, p string) (string, error) {
		switch {
		case strings.Contains(p, "<rule>\nfirst\n</rule>\n\nFirst, decide"):
			return "Sentence range: 0-1\nTitle: One\nContent: c1", nil
		case strings.Contains(p, "<rule>\nsecond\n</rule>\n\nFirst, decide"):
			return "N/A", nil
		default:
			return "Sentence range: 2-2\nTitle: Three\nContent: c3", nil
		}
	}}

	var replies int
	r := NewRequester(m, WithConcurrency(1), WithReplyHook(func(int, string) { replies++ }))
	res, err := r.Generate(context.Background(), text, []string{"first", "second", "third"})
	if err != nil {
		t.Fatal(err)
	}

	want := []ranges.Finding{
		{Start: 0, End: 14, Title: "One", Content: "c1"},
		{Start: 14, End: 20, Title: "Three", Content: "c3"},
	}
	if !reflect.DeepEqual(res.Findings, want) {
		t.Errorf("Findings = %+v, want %+v", res.Findings, want)
	}
	if replies != 3 {
		t.Errorf("reply hook called %d times, want 3", replies)
	}
}

func TestGenerateIsolatesFailures(t *testing.T) {
	m := &llm.Mock{Respond: func(_ context.Context, p string) (string, error) {
		if strings.Contains(p, "<rule>\nbad\n</rule>\n\nFirst, decide") {
			return "", llm.ErrRateLimited
		}
		return "Sentence range: 0-0\nTitle: ok\nContent: fine", nil
	}}

	res, err := NewRequester(m).Generate(context.Background(), "Hi.", []string{"good", "bad", "good too"})
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
	if len(res.Findings) != 2 {
		t.Errorf("got %d findings, want 2", len(res.Findings))
	}
	if len(res.Errors) != 1 || res.Errors[0].Rule != 1 || res.Errors[0].Text != "bad" {
		t.Errorf("Errors = %+v", res.Errors)
	}
}

func TestGenerateBlank(t *testing.T) {
	m := llm.NewMock("Sentence range: 0-0")
	res, err := NewRequester(m).Generate(context.Background(), "   ", []string{"r"})
	if err != nil || len(res.Findings) != 0 {
		t.Errorf("Generate(blank) = %+v, %v", res, err)
	}
	if len(m.Prompts()) != 0 {
		t.Error("blank text should not reach the client")
	}
}
