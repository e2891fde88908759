package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ObserveAgent(t *testing.T) {
	m := NewMetrics()
	m.ObserveAgent("coach", "success", time.Second)
	m.ObserveAgent("coach", "success", time.Second)
	m.ObserveAgent("coach", "timeout", time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `neuraline_agent_runs_total{outcome="success",role="coach"} 2`)
	assert.Contains(t, body, `neuraline_agent_runs_total{outcome="timeout",role="coach"} 1`)
	assert.Contains(t, body, `neuraline_agent_run_duration_seconds_count{role="coach"} 3`)
}

func TestMetrics_ObserveGeneration(t *testing.T) {
	m := NewMetrics()
	m.ObserveGeneration("gemini", nil, time.Millisecond)
	m.ObserveGeneration("gemini", errors.New("boom"), time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `neuraline_generation_calls_total{provider="gemini",result="ok"} 1`)
	assert.Contains(t, body, `neuraline_generation_calls_total{provider="gemini",result="error"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAgent("coach", "success", time.Second)
	m.ObserveGeneration("x", nil, time.Second)
	m.countEvent("X")
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Registry(t *testing.T) {
	m := NewMetrics()
	m.ObserveAgent("purpose", "fallback", time.Second)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "neuraline_agent_runs_total")
}

func TestEventLog_Record(t *testing.T) {
	var buf bytes.Buffer
	m := NewMetrics()
	l := NewEventLog(slog.New(slog.NewTextHandler(&buf, nil)), m)

	l.Record("AGENT_TIMEOUT", "coach timed out for session=s1")
	l.Record("MCP_CHAIN", "session=s1 best_role=coach")

	assert.Contains(t, buf.String(), "type=AGENT_TIMEOUT")
	assert.Contains(t, scrape(t, m), `neuraline_events_total{type="MCP_CHAIN"} 1`)

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "AGENT_TIMEOUT", recent[0].Type)
	assert.Equal(t, "session=s1 best_role=coach", recent[1].Message)
}

func TestEventLog_KeepsMostRecent(t *testing.T) {
	l := NewEventLog(slog.New(slog.DiscardHandler), nil)
	l.cap = 2
	l.Record("A", "1")
	l.Record("B", "2")
	l.Record("C", "3")

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "B", recent[0].Type)
	assert.Equal(t, "C", recent[1].Type)
}

type panicHandler struct{}

func (panicHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (panicHandler) Handle(context.Context, slog.Record) error { panic("sink down") }
func (h panicHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h panicHandler) WithGroup(string) slog.Handler           { return h }

func TestEventLog_SwallowsPanics(t *testing.T) {
	l := NewEventLog(slog.New(panicHandler{}), nil)
	assert.NotPanics(t, func() { l.Record("X", "y") })
}

func TestEventLog_NilSafe(t *testing.T) {
	var l *EventLog
	assert.NotPanics(t, func() { l.Record("X", "y") })
	assert.Nil(t, l.Recent())
}
