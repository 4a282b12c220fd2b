package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

type memCounts struct{ c tutor.DailyCount }

func (m *memCounts) Load(context.Context) tutor.DailyCount { return m.c }
func (m *memCounts) Save(_ context.Context, c tutor.DailyCount) error { m.c = c; return nil }

func newTestServer(t *testing.T, svc *tutor.Service) (*httptest.Server, *state.Shared) {
	t.Helper()
	st := state.NewShared(state.New(theme.Dark), nil)
	s := New(st, state.NewController(curriculum.Default()), svc, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func withProvider(p llm.Provider) *tutor.Service {
	return tutor.NewService(p, tutor.DefaultConfig(), nil)
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readAll(t, resp), `"ok"`)
}

func TestHighlight(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := post(t, ts, "/api/highlight", map[string]string{
		"code":     "def f():\n    return '<b>'",
		"language": "python",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out highlightResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.HTML, "def")
	assert.NotContains(t, out.HTML, "<b>", "code is escaped")
}

func TestHighlightRejectsUnknownLanguage(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := post(t, ts, "/api/highlight", map[string]string{"code": "x", "language": "cobol"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeStreamsAndAwards(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"### Summary\n", "Looks good."}})
	ts, st := newTestServer(t, withProvider(provider))

	resp := post(t, ts, "/api/analyze", map[string]string{
		"code":     "print('hi')",
		"language": "python",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "### Summary\nLooks good.", readAll(t, resp))

	want := st.Get().Progress.Points
	assert.Positive(t, want)
	assert.Equal(t, "false", resp.Trailer.Get(TrailerTaskSolved))
	assert.Equal(t, want, atoi(t, resp.Trailer.Get(TrailerPoints)))
	assert.Equal(t, 1, st.Get().Progress.Analytics.ProblemsAnalyzed)
}

func TestAnalyzeSolvesTask(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"[TASK_SUCCESS]\n", "Well done!"}})
	ts, st := newTestServer(t, withProvider(provider))
	task := curriculum.Default().Tasks()[0]

	resp := post(t, ts, "/api/analyze", map[string]string{
		"code":   "print('Hello, World!')",
		"taskId": task.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readAll(t, resp)
	assert.NotContains(t, body, "TASK_SUCCESS")
	assert.Contains(t, body, "Well done!")

	assert.Equal(t, "true", resp.Trailer.Get(TrailerTaskSolved))
	assert.Equal(t, task.Points, st.Get().Progress.Points)
	assert.True(t, st.Get().Progress.Analytics.HasCompleted(task.ID))
}

func TestAnalyzeSplitMarkerKeepsBody(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{"marker split", []string{"[TASK_", "SUCCESS]\n### 🧐 Code Analysis\n", "Correct solution."}, "### 🧐 Code Analysis\nCorrect solution."},
		{"leading newline", []string{"\n", "[TASK_SUCCESS]\n### 🧐 Code Analysis\n", "Correct solution."}, "### 🧐 Code Analysis\nCorrect solution."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := llm.NewMockProvider(llm.MockResponse{Chunks: tt.chunks})
			ts, st := newTestServer(t, withProvider(provider))
			task := curriculum.Default().Tasks()[0]

			resp := post(t, ts, "/api/analyze", map[string]string{
				"code":   "print('Hello, World!')",
				"taskId": task.ID,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, readAll(t, resp))
			assert.Equal(t, "true", resp.Trailer.Get(TrailerTaskSolved))
			assert.Equal(t, task.Points, st.Get().Progress.Points)
		})
	}
}

func TestAnalyzeValidation(t *testing.T) {
	provider := llm.NewMockProvider()
	ts, _ := newTestServer(t, withProvider(provider))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty code", map[string]string{"code": "  "}},
		{"bad language", map[string]string{"code": "x", "language": "cobol"}},
		{"bad difficulty", map[string]string{"code": "x", "difficulty": "expert"}},
		{"bad mode", map[string]string{"code": "x", "mode": "explain"}},
		{"unknown task", map[string]string{"code": "x", "taskId": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Zero(t, provider.CallCount())
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := post(t, ts, "/api/analyze", map[string]string{"code": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyzeDailyLimit(t *testing.T) {
	limiter := tutor.NewLimiter(&memCounts{}, 1)
	provider := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"ok"}})
	ts, _ := newTestServer(t, tutor.NewService(provider, tutor.DefaultConfig(), limiter))

	first := post(t, ts, "/api/analyze", map[string]string{"code": "a = 1"})
	require.Equal(t, http.StatusOK, first.StatusCode)
	readAll(t, first)

	second := post(t, ts, "/api/analyze", map[string]string{"code": "b = 2"})
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Contains(t, readAll(t, second), "Daily limit")
}

func TestAnalyzeFailureMidStream(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"partial"}, Err: errors.New("boom")})
	ts, st := newTestServer(t, withProvider(provider))

	resp := post(t, ts, "/api/analyze", map[string]string{"code": "x = 1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readAll(t, resp)
	assert.True(t, strings.HasPrefix(body, "partial"))
	assert.Contains(t, body, "⚠")
	assert.Zero(t, st.Get().Progress.Points, "a failed analysis pays nothing")
}

func TestProgress(t *testing.T) {
	ts, st := newTestServer(t, nil)
	next, keys := st.Get().WithUser(state.User{Name: "Ada", Avatar: "🦊"})
	require.NoError(t, st.Set(context.Background(), next, keys))

	resp, err := http.Get(ts.URL + "/api/progress")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out progressResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Ada", out.User.Name)
	assert.Equal(t, "Beginner", out.Level)
	assert.Equal(t, curriculum.Default().TotalTasks(), out.TotalTasks)
	assert.Contains(t, out.Analytics.SkillAreas, lang.Python)
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	require.NoError(t, json.Unmarshal([]byte(s), &n))
	return n
}
