package ranges

// State is the range list owned by the editing surface.
// Items are kept in insertion order; later items take priority when they
// overlap earlier ones.
type State struct {
	Items []Suggestion
}

// Ranges returns the ranges of the state's items.
func (s State) Ranges() []Range {
	return RangesOf(s.Items)
}

// Find returns the item with the given ID.
func (s State) Find(id int) (Suggestion, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Suggestion{}, false
}

// Msg is a state transition understood by Reduce.
type Msg interface {
	isMsg()
}

// ApplyEdit re-anchors every range through an edit.
type ApplyEdit struct {
	Edit Edit
}

// ReplaceRanges replaces the range list. Titles and contents of existing
// items carry over by ID.
type ReplaceRanges struct {
	Ranges []Range
}

// ReplaceSuggestions replaces the whole list, annotations included.
type ReplaceSuggestions struct {
	Suggestions []Suggestion
}

// SetActive sets the transient active flag of one range.
type SetActive struct {
	ID     int
	Active bool
}

// Clear removes all ranges.
type Clear struct{}

func (ApplyEdit) isMsg()          {}
func (ReplaceRanges) isMsg()      {}
func (ReplaceSuggestions) isMsg() {}
func (SetActive) isMsg()          {}
func (Clear) isMsg()              {}

// Reduce returns the state that results from applying msg to s.
// The input state is never modified.
func Reduce(s State, msg Msg) State {
	switch m := msg.(type) {
	case ApplyEdit:
		return applyEdit(s, m.Edit)
	case ReplaceRanges:
		return replaceRanges(s, m.Ranges)
	case ReplaceSuggestions:
		return State{Items: append([]Suggestion(nil), m.Suggestions...)}
	case SetActive:
		return setActive(s, m.ID, m.Active)
	case Clear:
		return State{}
	default:
		return s
	}
}

func applyEdit(s State, e Edit) State {
	e = e.normalize()
	items := make([]Suggestion, 0, len(s.Items))
	for _, it := range s.Items {
		r, ok := reanchorOne(e, it.Range)
		if !ok {
			continue
		}
		it.Range = r
		items = append(items, it)
	}
	return State{Items: items}
}

func replaceRanges(s State, rs []Range) State {
	byID := make(map[int]Suggestion, len(s.Items))
	for _, it := range s.Items {
		byID[it.ID] = it
	}
	items := make([]Suggestion, len(rs))
	for i, r := range rs {
		prev := byID[r.ID]
		items[i] = Suggestion{Range: r, Title: prev.Title, Content: prev.Content}
	}
	return State{Items: items}
}

func setActive(s State, id int, active bool) State {
	items := make([]Suggestion, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].ID == id {
			items[i].Active = active
		}
	}
	return State{Items: items}
}

// Model holds a State and applies messages to it.
// A Model is not safe for concurrent use; it belongs to the editor's
// event loop.
type Model struct {
	state State
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// Dispatch applies msg and returns the new state.
func (m *Model) Dispatch(msg Msg) State {
	m.state = Reduce(m.state, msg)
	return m.state
}

// State returns the current state.
func (m *Model) State() State {
	return m.state
}

// Ranges returns the current ranges.
func (m *Model) Ranges() []Range {
	return m.state.Ranges()
}

// Suggestions returns a copy of the current items.
func (m *Model) Suggestions() []Suggestion {
	return append([]Suggestion(nil), m.state.Items...)
}

// Len returns the number of ranges.
func (m *Model) Len() int {
	return len(m.state.Items)
}
