// Package curriculum holds the static learning content: the Python Path
// roadmap, per-language samples and placeholders, the snippet library,
// avatars and footer quotes. It is loaded from embedded YAML.
package curriculum

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/codetutor/codetutor/internal/lang"
)

//go:embed curriculum.yaml
var curriculumYAML []byte

// CompletionMessage is shown when the last roadmap task is solved.
const CompletionMessage = "Congratulations! You've completed the Python Path!"

// Task is one roadmap item. Code is the starter comment loaded into the
// editor.
type Task struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Points int    `yaml:"points"`
	Code   string `yaml:"code"`
}

// Section groups roadmap tasks under a heading.
type Section struct {
	Title string `yaml:"title"`
	Tasks []Task `yaml:"tasks"`
}

// Snippet is a library example.
type Snippet struct {
	ID          int             `yaml:"id"`
	Title       string          `yaml:"title"`
	Difficulty  lang.Difficulty `yaml:"difficulty"`
	Description string          `yaml:"description"`
	Code        string          `yaml:"code"`
}

// Quote is a footer quote.
type Quote struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// Curriculum is the parsed content.
type Curriculum struct {
	Avatars      []string                   `yaml:"avatars"`
	Quotes       []Quote                    `yaml:"quotes"`
	Placeholders map[lang.Language]string   `yaml:"placeholders"`
	Samples      map[lang.Language][]string `yaml:"samples"`
	Path         []Section                  `yaml:"path"`
	Library      []struct {
		Language lang.Language `yaml:"language"`
		Snippets []Snippet     `yaml:"snippets"`
	} `yaml:"library"`

	flat  []Task
	index map[string]int
}

// Parse decodes curriculum YAML and validates it.
func Parse(data []byte) (*Curriculum, error) {
	var c Curriculum
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}

	c.index = make(map[string]int)
	for _, sec := range c.Path {
		for _, t := range sec.Tasks {
			if _, dup := c.index[t.ID]; dup {
				return nil, fmt.Errorf("parse curriculum: duplicate task id %q", t.ID)
			}
			if t.Points <= 0 {
				return nil, fmt.Errorf("parse curriculum: task %q has no points", t.ID)
			}
			c.index[t.ID] = len(c.flat)
			c.flat = append(c.flat, t)
		}
	}
	for _, l := range lang.All() {
		if len(c.Samples[l]) == 0 {
			return nil, fmt.Errorf("parse curriculum: no samples for %s", l)
		}
		if c.Placeholders[l] == "" {
			return nil, fmt.Errorf("parse curriculum: no placeholder for %s", l)
		}
	}
	if len(c.Avatars) == 0 {
		return nil, fmt.Errorf("parse curriculum: no avatars")
	}
	return &c, nil
}

var (
	defaultOnce sync.Once
	defaultCur  *Curriculum
)

// Default returns the embedded curriculum. It panics if the embedded data
// is invalid, which the package tests guard against.
func Default() *Curriculum {
	defaultOnce.Do(func() {
		c, err := Parse(curriculumYAML)
		if err != nil {
			panic(err)
		}
		defaultCur = c
	})
	return defaultCur
}

// Tasks returns every roadmap task in path order.
func (c *Curriculum) Tasks() []Task { return c.flat }

// TotalTasks returns the number of roadmap tasks.
func (c *Curriculum) TotalTasks() int { return len(c.flat) }

// Task looks up a roadmap task by id.
func (c *Curriculum) Task(id string) (Task, bool) {
	i, ok := c.index[id]
	if !ok {
		return Task{}, false
	}
	return c.flat[i], true
}

// Next returns the task after id. It reports false when id is the last
// task or unknown.
func (c *Curriculum) Next(id string) (Task, bool) {
	i, ok := c.index[id]
	if !ok || i+1 >= len(c.flat) {
		return Task{}, false
	}
	return c.flat[i+1], true
}

// Progress counts completed tasks in the section.
func (s Section) Progress(completed []string) (done, total int) {
	seen := make(map[string]bool, len(completed))
	for _, id := range completed {
		seen[id] = true
	}
	for _, t := range s.Tasks {
		if seen[t.ID] {
			done++
		}
	}
	return done, len(s.Tasks)
}

// Placeholder returns the empty-editor text for l.
func (c *Curriculum) Placeholder(l lang.Language) string {
	return c.Placeholders[l]
}

// Sample returns a random beginner sample for l.
func (c *Curriculum) Sample(l lang.Language) string {
	return c.SampleFrom(l, rand.IntN)
}

// SampleFrom picks a sample using pick(n), which must return a value in
// [0, n).
func (c *Curriculum) SampleFrom(l lang.Language, pick func(n int) int) string {
	samples := c.Samples[l]
	if len(samples) == 0 {
		return c.Placeholder(l)
	}
	return samples[pick(len(samples))]
}

// Snippets returns the library snippets for l.
func (c *Curriculum) Snippets(l lang.Language) []Snippet {
	for _, sec := range c.Library {
		if sec.Language == l {
			return sec.Snippets
		}
	}
	return nil
}

// Quote returns the i-th footer quote, wrapping around.
func (c *Curriculum) Quote(i int) Quote {
	if len(c.Quotes) == 0 {
		return Quote{}
	}
	i %= len(c.Quotes)
	if i < 0 {
		i += len(c.Quotes)
	}
	return c.Quotes[i]
}
