package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"golang.org/x/mod/semver"
)

// SlotVersion is the schema version written with every slot blob. Blobs
// with a different major version are ignored on load.
const SlotVersion = "v1.0.0"

// Slot keys.
const (
	KeyTheme            = "theme"
	KeyPoints           = "points"
	KeyUser             = "user"
	KeyAnalytics        = "analytics"
	KeyChatbotOpened    = "chatbot-opened"
	KeyDailySubmissions = "daily-submissions"
)

// Slot is a typed value stored as JSON under a fixed key. Load never fails:
// anything unreadable yields the default.
type Slot[T any] struct {
	store   *Store
	key     string
	version string
	def     func() T
}

// NewSlot binds key to s. def builds the fallback value; it is called on
// every fallback so mutable defaults are never shared.
func NewSlot[T any](s *Store, key string, def func() T) *Slot[T] {
	return &Slot[T]{store: s, key: key, version: SlotVersion, def: def}
}

// Key returns the slot key.
func (sl *Slot[T]) Key() string { return sl.key }

// Load reads the stored value, or the default when the row is missing,
// unparseable or written by an incompatible schema version.
func (sl *Slot[T]) Load(ctx context.Context) T {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("version", "value").
		From(entsql.Table(slotsTable)).
		Where(entsql.EQ("key", sl.key)).
		Query()

	var version, raw string
	err := sl.store.db.QueryRowContext(ctx, q, args...).Scan(&version, &raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return sl.def()
	case err != nil:
		sl.store.logger.Warn("load slot", "key", sl.key, "err", err)
		return sl.def()
	}

	if !semver.IsValid(version) || semver.Major(version) != semver.Major(sl.version) {
		sl.store.logger.Warn("slot version mismatch", "key", sl.key, "stored", version, "want", sl.version)
		return sl.def()
	}

	v := sl.def()
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		sl.store.logger.Warn("decode slot", "key", sl.key, "err", err)
		return sl.def()
	}
	return v
}

// Save writes v. Errors are logged and returned; the caller keeps its
// in-memory value either way.
func (sl *Slot[T]) Save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		sl.store.logger.Error("encode slot", "key", sl.key, "err", err)
		return fmt.Errorf("encode slot %s: %w", sl.key, err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(slotsTable).
		Columns("key", "version", "value", "updated_at").
		Values(sl.key, sl.version, string(b), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := sl.store.db.ExecContext(ctx, q, args...); err != nil {
		sl.store.logger.Error("save slot", "key", sl.key, "err", err)
		return fmt.Errorf("save slot %s: %w", sl.key, err)
	}
	return nil
}

// Clear deletes the stored value so the next Load returns the default.
func (sl *Slot[T]) Clear(ctx context.Context) error {
	return sl.store.DeleteSlots(ctx, sl.key)
}

// SlotInfo describes one stored slot row.
type SlotInfo struct {
	Key       string
	Version   string
	Size      int
	UpdatedAt time.Time
}

// Slots lists every stored slot ordered by key.
func (s *Store) Slots(ctx context.Context) ([]SlotInfo, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("key", "version", "value", "updated_at").
		From(entsql.Table(slotsTable)).
		OrderBy("key").
		Query()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var (
			info SlotInfo
			raw  string
		)
		if err := rows.Scan(&info.Key, &info.Version, &raw, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		info.Size = len(raw)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSlots removes the named slots, or every slot when no key is given.
func (s *Store) DeleteSlots(ctx context.Context, keys ...string) error {
	b := entsql.Dialect(dialect.SQLite).Delete(slotsTable)
	if len(keys) > 0 {
		vals := make([]any, len(keys))
		for i, k := range keys {
			vals[i] = k
		}
		b = b.Where(entsql.In("key", vals...))
	}
	q, args := b.Query()
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}
	return nil
}
