// Package statusline renders the bottom line of the editor: the selected
// style guide, generation progress, caret position, notices and the input
// prompt.
package statusline

import (
	"fmt"

	"github.com/dshills/proofmark/internal/renderer/backend"
	"github.com/dshills/proofmark/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Spinner frames shown while suggestions are being generated.
var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Styles used by the status line.
var (
	barStyle   = core.DefaultStyle().WithBackground(core.ColorGray).WithForeground(core.ColorWhite)
	guideStyle = core.DefaultStyle().Bold().WithBackground(core.ColorBlue).WithForeground(core.ColorWhite)
	errorStyle = core.DefaultStyle().WithForeground(core.ColorRed).Bold()
	warnStyle  = core.DefaultStyle().WithForeground(core.MustHex("#E5C07B"))
)

// StatusLine renders the bottom status line.
type StatusLine struct {
	guide       string
	suggestions int
	generating  bool
	frame       int
	line, col   int // 1-indexed
	noKey       bool

	// Prompt state
	promptActive bool
	promptLabel  string
	promptBuffer []rune
	promptMask   bool

	message     string
	messageType MessageType
	sticky      bool // Message stays until dismissed

	width int
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{line: 1, col: 1}
}

// SetGuide updates the style guide name.
func (s *StatusLine) SetGuide(name string) {
	s.guide = name
}

// SetSuggestionCount updates the number of suggestions shown.
func (s *StatusLine) SetSuggestionCount(n int) {
	s.suggestions = n
}

// SetGenerating toggles the progress spinner.
func (s *StatusLine) SetGenerating(on bool) {
	s.generating = on
}

// Generating reports whether the spinner is shown.
func (s *StatusLine) Generating() bool {
	return s.generating
}

// Tick advances the spinner.
func (s *StatusLine) Tick() {
	s.frame = (s.frame + 1) % len(spinnerFrames)
}

// SetNoCredential shows that no API key is configured.
func (s *StatusLine) SetNoCredential(missing bool) {
	s.noKey = missing
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line, s.col = line, col
}

// SetMessage shows a transient message, replaced by the next one.
func (s *StatusLine) SetMessage(msg string, t MessageType) {
	if s.sticky && t < MessageError {
		return
	}
	s.message, s.messageType, s.sticky = msg, t, false
}

// SetNotice shows a message that stays until Dismiss is called.
func (s *StatusLine) SetNotice(msg string) {
	s.message, s.messageType, s.sticky = msg, MessageError, true
}

// HasNotice reports whether a blocking notice is shown.
func (s *StatusLine) HasNotice() bool {
	return s.sticky
}

// Dismiss clears any message.
func (s *StatusLine) Dismiss() {
	s.message, s.messageType, s.sticky = "", MessageNone, false
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// StartPrompt opens the input prompt. Masked input echoes as '*'.
func (s *StatusLine) StartPrompt(label string, masked bool) {
	s.promptActive, s.promptLabel, s.promptMask = true, label, masked
	s.promptBuffer = s.promptBuffer[:0]
}

// Prompting reports whether the prompt is open.
func (s *StatusLine) Prompting() bool {
	return s.promptActive
}

// PromptInsert appends text to the prompt.
func (s *StatusLine) PromptInsert(text string) {
	for _, r := range text {
		if r >= ' ' {
			s.promptBuffer = append(s.promptBuffer, r)
		}
	}
}

// PromptBackspace removes the last rune of the prompt.
func (s *StatusLine) PromptBackspace() {
	if n := len(s.promptBuffer); n > 0 {
		s.promptBuffer = s.promptBuffer[:n-1]
	}
}

// EndPrompt closes the prompt and returns what was typed.
func (s *StatusLine) EndPrompt() string {
	v := string(s.promptBuffer)
	s.promptActive = false
	s.promptBuffer = s.promptBuffer[:0]
	return v
}

// Resize updates the width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Render draws the status line at row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	switch {
	case s.promptActive:
		s.renderPrompt(b, row)
	case s.message != "":
		s.renderMessage(b, row)
	default:
		s.renderBar(b, row)
	}
}

func (s *StatusLine) renderBar(b backend.Backend, row int) {
	s.clear(b, row, barStyle)

	col := s.put(b, 0, row, " "+s.guideLabel()+" ", guideStyle)
	col = s.put(b, col, row, " ", barStyle)
	if s.generating {
		col = s.put(b, col, row, string(spinnerFrames[s.frame])+" checking ", barStyle)
	}
	switch {
	case s.noKey:
		s.put(b, col, row, "no API key (Ctrl-K)", barStyle)
	case s.suggestions == 1:
		s.put(b, col, row, "1 suggestion", barStyle)
	default:
		s.put(b, col, row, fmt.Sprintf("%d suggestions", s.suggestions), barStyle)
	}

	pos := fmt.Sprintf("Ln %d, Col %d ", s.line, s.col)
	if start := s.width - core.StringWidth(pos); start > col {
		s.put(b, start, row, pos, barStyle)
	}
}

func (s *StatusLine) renderPrompt(b backend.Backend, row int) {
	st := core.DefaultStyle()
	s.clear(b, row, st)
	col := s.put(b, 0, row, s.promptLabel, st.Bold())

	text := string(s.promptBuffer)
	if s.promptMask {
		text = ""
		for range s.promptBuffer {
			text += "*"
		}
	}
	col = s.put(b, col, row, text, st)
	b.ShowCursor(min(col, s.width-1), row)
}

func (s *StatusLine) renderMessage(b backend.Backend, row int) {
	st := core.DefaultStyle()
	switch s.messageType {
	case MessageError:
		st = errorStyle
	case MessageWarning:
		st = warnStyle
	}
	s.clear(b, row, st)
	msg := s.message
	if s.sticky {
		msg += "  (Esc to dismiss)"
	}
	s.put(b, 0, row, msg, st)
}

func (s *StatusLine) guideLabel() string {
	if s.guide == "" {
		return "no style guide"
	}
	return s.guide
}

func (s *StatusLine) clear(b backend.Backend, row int, st core.Style) {
	b.Fill(core.RectFromSize(row, 0, 1, s.width), core.Cell{Rune: ' ', Width: 1, Style: st})
}

// put writes text from col and returns the column after it.
func (s *StatusLine) put(b backend.Backend, col, row int, text string, st core.Style) int {
	for _, r := range text {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > s.width {
			break
		}
		b.SetCell(col, row, core.Cell{Rune: r, Width: w, Style: st})
		col += w
	}
	return col
}
