package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/store"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestNewState(t *testing.T) {
	s := New(theme.Light)
	assert.Equal(t, theme.Light, s.Theme)
	assert.Equal(t, DefaultUser(), s.User)
	assert.Len(t, s.Progress.Analytics.SkillAreas, len(lang.All()))
	assert.Equal(t, "Beginner", s.Level().Name)
}

func TestStateTransitions(t *testing.T) {
	s := New(theme.Dark)

	toggled, keys := s.ToggleTheme()
	assert.Equal(t, theme.Light, toggled.Theme)
	assert.Equal(t, []string{store.KeyTheme}, keys)
	assert.Equal(t, theme.Dark, s.Theme, "input is not mutated")

	named, keys := s.WithUser(User{Name: "Ada"})
	assert.Equal(t, User{Name: "Ada", Avatar: DefaultUser().Avatar}, named.User)
	assert.Equal(t, []string{store.KeyUser}, keys)

	same, keys := named.WithUser(User{Name: "Ada"})
	assert.Nil(t, keys)
	assert.Equal(t, named.User, same.User)

	opened, keys := s.OpenChatbot()
	assert.True(t, opened.ChatbotOpened)
	assert.Equal(t, []string{store.KeyChatbotOpened}, keys)
	_, keys = opened.OpenChatbot()
	assert.Nil(t, keys)
}

func TestWithProgressDeepCopies(t *testing.T) {
	s := New(theme.Dark)
	p := s.Progress.Clone()
	p.Points = 42
	p.Analytics.SkillAreas[lang.C] = 3

	next, keys := s.WithProgress(p)
	assert.ElementsMatch(t, []string{store.KeyPoints, store.KeyAnalytics}, keys)
	p.Analytics.SkillAreas[lang.C] = 99
	assert.Equal(t, 3, next.Progress.Analytics.SkillAreas[lang.C])
	assert.Equal(t, 0, s.Progress.Analytics.SkillAreas[lang.C])
}

func TestReset(t *testing.T) {
	s := New(theme.Light)
	s.Progress.Points = 300
	s.User.Name = "Ada"

	r, keys := s.Reset()
	assert.Equal(t, theme.Light, r.Theme)
	assert.Equal(t, 0, r.Progress.Points)
	assert.Equal(t, DefaultUser(), r.User)
	assert.NotContains(t, keys, store.KeyTheme)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	p := NewPersistence(st, theme.Dark)

	first := p.Load(ctx)
	assert.Equal(t, New(theme.Dark).User, first.User)
	assert.Equal(t, theme.Dark, first.Theme)

	s := first
	s.Theme = theme.Light
	s.Progress.Points = 120
	s.Progress.Analytics.Streak = 3
	s.Progress.Analytics.SkillAreas[lang.Python] = 2
	s.User = User{Name: "Grace", Avatar: "🚀"}
	s.ChatbotOpened = true
	require.NoError(t, p.Save(ctx, s, store.KeyTheme, store.KeyPoints, store.KeyAnalytics, store.KeyUser, store.KeyChatbotOpened))

	got := NewPersistence(st, theme.Dark).Load(ctx)
	assert.Equal(t, theme.Light, got.Theme)
	assert.Equal(t, 120, got.Progress.Points)
	assert.Equal(t, 3, got.Progress.Analytics.Streak)
	assert.Equal(t, 2, got.Progress.Analytics.SkillAreas[lang.Python])
	assert.Equal(t, "Grace", got.User.Name)
	assert.True(t, got.ChatbotOpened)
}

func TestPersistenceSavesOnlyNamedKeys(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	p := NewPersistence(st, theme.Dark)

	s := p.Load(ctx)
	s.Progress.Points = 50
	s.User.Name = "Unsaved"
	require.NoError(t, p.Save(ctx, s, store.KeyPoints))

	got := p.Load(ctx)
	assert.Equal(t, 50, got.Progress.Points)
	assert.Equal(t, DefaultUser().Name, got.User.Name)
}

func TestSharedSet(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	persist := NewPersistence(st, theme.Dark)
	sh := NewShared(persist.Load(ctx), persist)

	next, keys := sh.Get().ToggleTheme()
	require.NoError(t, sh.Set(ctx, next, keys))
	assert.Equal(t, theme.Light, sh.Get().Theme)
	assert.Equal(t, theme.Light, persist.Load(ctx).Theme)

	mem := NewShared(New(theme.Dark), nil)
	next, keys = mem.Get().OpenChatbot()
	require.NoError(t, mem.Set(ctx, next, keys))
	assert.True(t, mem.Get().ChatbotOpened)
}
