// Package lang defines the closed sets of programming languages and
// learner difficulty levels the tutor understands.
package lang

import (
	"fmt"
	"strings"
)

// Language identifies a supported programming language.
type Language string

const (
	Python     Language = "Python"
	JavaScript Language = "JavaScript"
	Java       Language = "Java"
	CPP        Language = "C++"
	C          Language = "C"
)

// All returns every supported language in display order.
func All() []Language {
	return []Language{Python, JavaScript, Java, CPP, C}
}

// Parse resolves a user-supplied language name. Matching is
// case-insensitive and accepts common aliases and file extensions.
func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, nil
	case "javascript", "js":
		return JavaScript, nil
	case "java":
		return Java, nil
	case "c++", "cpp", "cc", "cxx":
		return CPP, nil
	case "c", "h":
		return C, nil
	}
	return "", fmt.Errorf("unknown language: %q", s)
}

// FromFilename guesses the language from a file extension.
func FromFilename(name string) (Language, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	l, err := Parse(name[i+1:])
	if err != nil {
		return "", false
	}
	return l, true
}

// Fence returns the identifier used for Markdown code fences.
func (l Language) Fence() string {
	if l == CPP {
		return "cpp"
	}
	return strings.ToLower(string(l))
}

// UsesColonBlocks reports whether blocks open with a trailing colon
// rather than a brace.
func (l Language) UsesColonBlocks() bool {
	return l == Python
}

// Difficulty is the learner level the AI tailors its feedback to.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Difficulties returns every difficulty in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// ParseDifficulty resolves a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// Next cycles to the following language, wrapping around.
func (l Language) Next() Language {
	all := All()
	for i, x := range all {
		if x == l {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Next cycles to the following difficulty, wrapping around.
func (d Difficulty) Next() Difficulty {
	all := Difficulties()
	for i, x := range all {
		if x == d {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
