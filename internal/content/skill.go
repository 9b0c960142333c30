package content

import (
	"fmt"
	"strings"
)

// Skill is the language skill a test assesses. It selects the grading
// variant and the session duration.
type Skill string

const (
	Listening Skill = "listening"
	Reading   Skill = "reading"
	Speaking  Skill = "speaking"
	Writing   Skill = "writing"
)

// AllSkills lists the skills in menu order.
var AllSkills = []Skill{Listening, Reading, Speaking, Writing}

// Default durations per skill, in seconds.
const (
	ListeningSeconds = 2400
	ReadingSeconds   = 2400
	SpeakingSeconds  = 900
	WritingSeconds   = 2400
)

// ParseSkill parses a skill name, ignoring case and surrounding whitespace.
func ParseSkill(s string) (Skill, error) {
	switch Skill(strings.ToLower(strings.TrimSpace(s))) {
	case Listening:
		return Listening, nil
	case Reading:
		return Reading, nil
	case Speaking:
		return Speaking, nil
	case Writing:
		return Writing, nil
	}
	return "", fmt.Errorf("unknown skill %q", s)
}

// Title returns the display name, e.g. "Listening".
func (s Skill) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// TotalSeconds returns the fixed session length for the skill.
func (s Skill) TotalSeconds() int {
	switch s {
	case Listening:
		return ListeningSeconds
	case Reading:
		return ReadingSeconds
	case Speaking:
		return SpeakingSeconds
	case Writing:
		return WritingSeconds
	}
	return 0
}

// KeyGraded reports whether the skill is graded against an answer key
// and converted to a band.
func (s Skill) KeyGraded() bool {
	return s == Listening || s == Reading
}
