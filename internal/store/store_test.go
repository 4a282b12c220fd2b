package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

type profile struct {
	Name   string         `json:"name"`
	Avatar string         `json:"avatar"`
	Tags   map[string]int `json:"tags"`
}

func defaultProfile() profile {
	return profile{Name: "Student", Avatar: "🧑‍💻", Tags: map[string]int{}}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if !assert.NoError(t, err, "PRAGMA %s", tt.pragma) {
			continue
		}
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestSlotMissingReturnsDefault(t *testing.T) {
	s := openTestStore(t)
	slot := NewSlot(s, KeyUser, defaultProfile)

	got := slot.Load(context.Background())
	assert.Equal(t, defaultProfile(), got)
}

func TestSlotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	slot := NewSlot(s, KeyUser, defaultProfile)

	want := profile{Name: "Ada", Avatar: "🦊", Tags: map[string]int{"python": 3}}
	require.NoError(t, slot.Save(ctx, want))
	assert.Equal(t, want, slot.Load(ctx))

	want.Name = "Grace"
	require.NoError(t, slot.Save(ctx, want))
	assert.Equal(t, "Grace", slot.Load(ctx).Name, "second save should overwrite")
}

func TestSlotScalar(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	points := NewSlot(s, KeyPoints, func() int { return 0 })

	require.NoError(t, points.Save(ctx, 42))
	assert.Equal(t, 42, points.Load(ctx))

	require.NoError(t, points.Clear(ctx))
	assert.Equal(t, 0, points.Load(ctx))
}

func TestSlotCorruptFallsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`INSERT INTO slots (key, version, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		KeyUser, SlotVersion, "{not json")
	require.NoError(t, err)

	got := NewSlot(s, KeyUser, defaultProfile).Load(ctx)
	assert.Equal(t, defaultProfile(), got)
}

func TestSlotVersionCompatibility(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"v1.0.0", "Ada"},
		{"v1.4.2", "Ada"},
		{"v2.0.0", "Student"},
		{"v0.9.0", "Student"},
		{"garbage", "Student"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			s := openTestStore(t)
			_, err := s.DB().Exec(`INSERT INTO slots (key, version, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
				KeyUser, tt.version, `{"name":"Ada","avatar":"🦊"}`)
			require.NoError(t, err)

			got := NewSlot(s, KeyUser, defaultProfile).Load(context.Background())
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestSlotsListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, NewSlot(s, KeyTheme, func() string { return "dark" }).Save(ctx, "light"))
	require.NoError(t, NewSlot(s, KeyPoints, func() int { return 0 }).Save(ctx, 7))

	infos, err := s.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, KeyPoints, infos[0].Key)
	assert.Equal(t, KeyTheme, infos[1].Key)
	assert.Equal(t, SlotVersion, infos[1].Version)
	assert.Equal(t, len(`"light"`), infos[1].Size)

	require.NoError(t, s.DeleteSlots(ctx, KeyTheme))
	infos, err = s.Slots(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	require.NoError(t, s.DeleteSlots(ctx))
	infos, err = s.Slots(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "analyze", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "[user]\ncode"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "predict", InputTokens: 50, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "analyze", InputTokens: 120, OutputTokens: 380, LatencyMs: 1100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "boom", all[0].ErrorMessage, "newest first")
	assert.Greater(t, all[0].Sequence, all[1].Sequence)

	analyze, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "analyze", Limit: 1})
	require.NoError(t, err)
	require.Len(t, analyze, 1)
	assert.False(t, analyze[0].Success)

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\ncode", got.RequestBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "analyze", Calls: 2, InputTokens: 220, OutputTokens: 780, AvgLatencyMs: 1000}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
}
