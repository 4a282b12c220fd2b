// Package state holds the learner's persisted application state and the
// rules that change it. A State value is immutable in practice: every
// change returns a new value plus the slot keys that must be written.
package state

import (
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/store"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// User is the learner's display identity.
type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// DefaultUser is used until the learner edits their profile.
func DefaultUser() User {
	return User{Name: "Student", Avatar: "🧑‍💻"}
}

// State is everything the app persists about the learner.
type State struct {
	Theme         theme.Mode
	Progress      rewards.Progress
	User          User
	ChatbotOpened bool
}

// New returns the first-run state.
func New(mode theme.Mode) State {
	return State{
		Theme:    mode,
		Progress: rewards.Progress{Analytics: rewards.NewAnalytics()},
		User:     DefaultUser(),
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	s.Progress = s.Progress.Clone()
	return s
}

// ToggleTheme switches between light and dark.
func (s State) ToggleTheme() (State, []string) {
	next := s.Clone()
	next.Theme = s.Theme.Toggle()
	return next, []string{store.KeyTheme}
}

// WithUser replaces the profile. Blank fields keep their old value.
func (s State) WithUser(u User) (State, []string) {
	next := s.Clone()
	if u.Name != "" {
		next.User.Name = u.Name
	}
	if u.Avatar != "" {
		next.User.Avatar = u.Avatar
	}
	if next.User == s.User {
		return s, nil
	}
	return next, []string{store.KeyUser}
}

// WithProgress replaces points and analytics.
func (s State) WithProgress(p rewards.Progress) (State, []string) {
	next := s.Clone()
	next.Progress = p.Clone()
	return next, []string{store.KeyPoints, store.KeyAnalytics}
}

// OpenChatbot marks the assistant as discovered.
func (s State) OpenChatbot() (State, []string) {
	if s.ChatbotOpened {
		return s, nil
	}
	next := s.Clone()
	next.ChatbotOpened = true
	return next, []string{store.KeyChatbotOpened}
}

// Reset returns the first-run state, keeping the theme.
func (s State) Reset() (State, []string) {
	return New(s.Theme), []string{store.KeyPoints, store.KeyAnalytics, store.KeyUser, store.KeyChatbotOpened}
}

// Level is the learner's current rank.
func (s State) Level() rewards.Level {
	return rewards.LevelFor(s.Progress.Points)
}
