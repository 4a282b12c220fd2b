package tutor

import (
	"context"
	"fmt"
	"time"
)

// DailyCount is the persisted number of AI requests made on Date
// (YYYY-MM-DD, local time).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountStore loads and saves the daily counter. *store.Slot[DailyCount]
// satisfies it.
type CountStore interface {
	Load(ctx context.Context) DailyCount
	Save(ctx context.Context, v DailyCount) error
}

// ErrDailyLimit is returned when the day's AI request budget is spent.
type ErrDailyLimit struct {
	Limit int
}

func (e *ErrDailyLimit) Error() string {
	return fmt.Sprintf("Daily limit of %d AI requests reached. Try again tomorrow.", e.Limit)
}

// Limiter caps AI requests per calendar day. A zero limit disables it.
type Limiter struct {
	counts CountStore
	limit  int
	clock  func() time.Time
}

// NewLimiter creates a Limiter backed by counts.
func NewLimiter(counts CountStore, limit int) *Limiter {
	return &Limiter{counts: counts, limit: limit, clock: time.Now}
}

func (l *Limiter) today() string {
	return l.clock().Format(time.DateOnly)
}

func (l *Limiter) current(ctx context.Context) DailyCount {
	c := l.counts.Load(ctx)
	if c.Date != l.today() {
		return DailyCount{Date: l.today()}
	}
	return c
}

// Remaining returns how many requests are left today, or -1 when unlimited.
func (l *Limiter) Remaining(ctx context.Context) int {
	if l == nil || l.limit <= 0 {
		return -1
	}
	return max(l.limit-l.current(ctx).Count, 0)
}

// Take consumes one request. A failed save still admits the request; the
// counter is best-effort.
func (l *Limiter) Take(ctx context.Context) error {
	if l == nil || l.limit <= 0 {
		return nil
	}
	c := l.current(ctx)
	if c.Count >= l.limit {
		return &ErrDailyLimit{Limit: l.limit}
	}
	c.Count++
	// store.Slot.Save already logs failures with the slot key.
	_ = l.counts.Save(ctx, c)
	return nil
}
