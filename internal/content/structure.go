package content

import "strings"

// ItemKind describes how an item is answered.
type ItemKind string

const (
	KindText     ItemKind = "text"     // short typed answer
	KindChoice   ItemKind = "choice"   // option letter
	KindSpeaking ItemKind = "speaking" // spoken sub-question with transcript + self-ratings
	KindEssay    ItemKind = "essay"    // free text
)

// Field addresses one captured value of a multi-field item.
// Single-field items use FieldNone.
type Field string

const (
	FieldNone          Field = ""
	FieldTranscript    Field = "transcript"
	FieldModel         Field = "model"
	FieldFluency       Field = "fluency"
	FieldVocabulary    Field = "vocabulary"
	FieldGrammar       Field = "grammar"
	FieldPronunciation Field = "pronunciation"
)

// RatingFields are the self-rating categories of a speaking item, in
// display order.
var RatingFields = []Field{FieldFluency, FieldVocabulary, FieldGrammar, FieldPronunciation}

// SpeakingFields are all fields a speaking item accepts.
var SpeakingFields = append([]Field{FieldTranscript, FieldModel}, RatingFields...)

// IsRating reports whether f is one of the 1-5 star categories.
func (f Field) IsRating() bool {
	for _, r := range RatingFields {
		if f == r {
			return true
		}
	}
	return false
}

// AnswerID builds the answer id for an item field.
func AnswerID(itemID string, field Field) string {
	if field == FieldNone {
		return itemID
	}
	return itemID + "/" + string(field)
}

// SplitAnswerID is the inverse of AnswerID.
func SplitAnswerID(id string) (itemID string, field Field) {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[:i], Field(id[i+1:])
	}
	return id, FieldNone
}

// Item is a single navigable question.
type Item struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Kind    ItemKind `json:"kind"`
	Options []string `json:"options,omitempty"`
}

// Part groups items under shared instructions.
type Part struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions,omitempty"`
	Items        []Item `json:"items"`
}

// Section is the top-level division of a test: a recording, a passage,
// or a speaking part.
type Section struct {
	Title   string `json:"title"`
	Audio   string `json:"audio,omitempty"`
	Passage string `json:"passage,omitempty"`
	Parts   []Part `json:"parts"`
}

// Structure is the ordered content of a test.
type Structure struct {
	Sections []Section `json:"sections"`
}

// Position indexes an item within a Structure.
type Position struct {
	Section int
	Part    int
	Item    int
}

// ItemCount returns the number of items across all sections.
func (s Structure) ItemCount() int {
	n := 0
	for _, sec := range s.Sections {
		for _, p := range sec.Parts {
			n += len(p.Items)
		}
	}
	return n
}

// Items returns all items in order.
func (s Structure) Items() []Item {
	items := make([]Item, 0, s.ItemCount())
	for _, sec := range s.Sections {
		for _, p := range sec.Parts {
			items = append(items, p.Items...)
		}
	}
	return items
}

// ItemAt returns the item at pos.
func (s Structure) ItemAt(pos Position) (Item, bool) {
	if !s.valid(pos) {
		return Item{}, false
	}
	return s.Sections[pos.Section].Parts[pos.Part].Items[pos.Item], true
}

// Ordinal returns the zero-based flattened index of pos, or -1.
func (s Structure) Ordinal(pos Position) int {
	if !s.valid(pos) {
		return -1
	}
	n := 0
	for si, sec := range s.Sections {
		for pi, p := range sec.Parts {
			if si == pos.Section && pi == pos.Part {
				return n + pos.Item
			}
			n += len(p.Items)
		}
	}
	return -1
}

// Next returns the position after pos. It reports false at the last item;
// positions never wrap.
func (s Structure) Next(pos Position) (Position, bool) {
	if !s.valid(pos) {
		return pos, false
	}
	if pos.Item+1 < len(s.Sections[pos.Section].Parts[pos.Part].Items) {
		return Position{pos.Section, pos.Part, pos.Item + 1}, true
	}
	for si := pos.Section; si < len(s.Sections); si++ {
		start := 0
		if si == pos.Section {
			start = pos.Part + 1
		}
		for pi := start; pi < len(s.Sections[si].Parts); pi++ {
			if len(s.Sections[si].Parts[pi].Items) > 0 {
				return Position{si, pi, 0}, true
			}
		}
	}
	return pos, false
}

// Prev returns the position before pos. It reports false at the first item.
func (s Structure) Prev(pos Position) (Position, bool) {
	if !s.valid(pos) {
		return pos, false
	}
	if pos.Item > 0 {
		return Position{pos.Section, pos.Part, pos.Item - 1}, true
	}
	for si := pos.Section; si >= 0; si-- {
		start := len(s.Sections[si].Parts) - 1
		if si == pos.Section {
			start = pos.Part - 1
		}
		for pi := start; pi >= 0; pi-- {
			if n := len(s.Sections[si].Parts[pi].Items); n > 0 {
				return Position{si, pi, n - 1}, true
			}
		}
	}
	return pos, false
}

// First returns the position of the first item.
func (s Structure) First() (Position, bool) {
	for si, sec := range s.Sections {
		for pi, p := range sec.Parts {
			if len(p.Items) > 0 {
				return Position{si, pi, 0}, true
			}
		}
	}
	return Position{}, false
}

// Find returns the item with the given id.
func (s Structure) Find(itemID string) (Item, bool) {
	for _, sec := range s.Sections {
		for _, p := range sec.Parts {
			for _, it := range p.Items {
				if it.ID == itemID {
					return it, true
				}
			}
		}
	}
	return Item{}, false
}

// Resolve maps an answer id to its item and field. It reports false for
// ids that do not name an item, or name a field the item does not have.
func (s Structure) Resolve(id string) (Item, Field, bool) {
	if it, ok := s.Find(id); ok {
		if it.Kind == KindSpeaking {
			return Item{}, FieldNone, false
		}
		return it, FieldNone, true
	}
	itemID, field := SplitAnswerID(id)
	it, ok := s.Find(itemID)
	if !ok || it.Kind != KindSpeaking {
		return Item{}, FieldNone, false
	}
	for _, f := range SpeakingFields {
		if f == field {
			return it, field, true
		}
	}
	return Item{}, FieldNone, false
}

func (s Structure) valid(pos Position) bool {
	if pos.Section < 0 || pos.Section >= len(s.Sections) {
		return false
	}
	parts := s.Sections[pos.Section].Parts
	if pos.Part < 0 || pos.Part >= len(parts) {
		return false
	}
	return pos.Item >= 0 && pos.Item < len(parts[pos.Part].Items)
}

// Locate returns the position of the item with itemID.
func (s Structure) Locate(itemID string) (Position, bool) {
	for si, sec := range s.Sections {
		for pi, p := range sec.Parts {
			for ii, it := range p.Items {
				if it.ID == itemID {
					return Position{si, pi, ii}, true
				}
			}
		}
	}
	return Position{}, false
}
