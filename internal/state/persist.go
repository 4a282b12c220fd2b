package state

import (
	"context"
	"errors"

	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/store"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Persistence maps State fields onto their store slots.
type Persistence struct {
	theme     *store.Slot[theme.Mode]
	points    *store.Slot[int]
	user      *store.Slot[User]
	analytics *store.Slot[rewards.Analytics]
	chatbot   *store.Slot[bool]
}

// NewPersistence binds the state slots in st. defaultTheme applies until the
// learner toggles it.
func NewPersistence(st *store.Store, defaultTheme theme.Mode) *Persistence {
	return &Persistence{
		theme:     store.NewSlot(st, store.KeyTheme, func() theme.Mode { return defaultTheme }),
		points:    store.NewSlot(st, store.KeyPoints, func() int { return 0 }),
		user:      store.NewSlot(st, store.KeyUser, DefaultUser),
		analytics: store.NewSlot(st, store.KeyAnalytics, rewards.NewAnalytics),
		chatbot:   store.NewSlot(st, store.KeyChatbotOpened, func() bool { return false }),
	}
}

// Load reads every slot. Unreadable slots fall back to their defaults.
func (p *Persistence) Load(ctx context.Context) State {
	a := p.analytics.Load(ctx)
	if a.SkillAreas == nil {
		a.SkillAreas = rewards.NewAnalytics().SkillAreas
	}
	return State{
		Theme:         theme.ParseMode(string(p.theme.Load(ctx))),
		Progress:      rewards.Progress{Points: p.points.Load(ctx), Analytics: a},
		User:          p.user.Load(ctx),
		ChatbotOpened: p.chatbot.Load(ctx),
	}
}

// Save writes the named slots from s. Every key is attempted; failures are
// joined.
func (p *Persistence) Save(ctx context.Context, s State, keys ...string) error {
	var errs []error
	for _, k := range keys {
		var err error
		switch k {
		case store.KeyTheme:
			err = p.theme.Save(ctx, s.Theme)
		case store.KeyPoints:
			err = p.points.Save(ctx, s.Progress.Points)
		case store.KeyUser:
			err = p.user.Save(ctx, s.User)
		case store.KeyAnalytics:
			err = p.analytics.Save(ctx, s.Progress.Analytics)
		case store.KeyChatbotOpened:
			err = p.chatbot.Save(ctx, s.ChatbotOpened)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shared is the single mutable holder of State. It is only touched from
// the Bubble Tea update loop or a single CLI goroutine.
type Shared struct {
	state   State
	persist *Persistence
}

// NewShared wraps s. persist may be nil, which keeps state in memory only.
func NewShared(s State, persist *Persistence) *Shared {
	return &Shared{state: s, persist: persist}
}

// Get returns the current state.
func (sh *Shared) Get() State { return sh.state }

// Set replaces the state and writes the named slots. The in-memory value
// is kept even when the write fails.
func (sh *Shared) Set(ctx context.Context, next State, keys []string) error {
	sh.state = next
	if sh.persist == nil || len(keys) == 0 {
		return nil
	}
	return sh.persist.Save(ctx, next, keys...)
}
