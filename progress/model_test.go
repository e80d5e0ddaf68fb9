package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sparv/scheduler"
)

func TestModel_UpdateTalliesEvents(t *testing.T) {
	t.Parallel()

	ch := make(chan scheduler.Event)
	m := New(ch)

	next, _ := m.Update(eventMsg(scheduler.Event{TaskID: "segment:token@a.xml", Status: scheduler.StatusRan}))
	m = next.(*Model)
	next, _ = m.Update(eventMsg(scheduler.Event{TaskID: "segment:sentence@a.xml", Status: scheduler.StatusFailed}))
	m = next.(*Model)
	next, _ = m.Update(eventMsg(scheduler.Event{TaskID: "segment:token@b.xml", Status: scheduler.StatusSkipped}))
	m = next.(*Model)

	assert.Equal(t, 1, m.counts[scheduler.StatusRan])
	assert.Equal(t, 1, m.counts[scheduler.StatusFailed])
	assert.Equal(t, 1, m.counts[scheduler.StatusSkipped])
	assert.Len(t, m.recent, 3)
}

func TestModel_UpdateCapsRecentScrollback(t *testing.T) {
	t.Parallel()

	ch := make(chan scheduler.Event)
	m := New(ch)

	for i := 0; i < maxRecent+5; i++ {
		next, _ := m.Update(eventMsg(scheduler.Event{TaskID: "task", Status: scheduler.StatusRan}))
		m = next.(*Model)
	}

	assert.Len(t, m.recent, maxRecent)
	assert.Equal(t, maxRecent+5, m.counts[scheduler.StatusRan])
}

func TestModel_UpdateQuitsOnDone(t *testing.T) {
	t.Parallel()

	ch := make(chan scheduler.Event)
	m := New(ch)

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
}

func TestModel_ViewDoesNotPanic(t *testing.T) {
	t.Parallel()

	ch := make(chan scheduler.Event)
	m := New(ch)

	next, _ := m.Update(eventMsg(scheduler.Event{TaskID: "segment:token@a.xml", Status: scheduler.StatusRan}))
	m = next.(*Model)

	assert.NotPanics(t, func() { m.View() })
}

func TestLineFor_CoversEveryStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []scheduler.Status{
		scheduler.StatusRunning, scheduler.StatusRan, scheduler.StatusSkipped,
		scheduler.StatusFailed, scheduler.StatusNotRun,
	} {
		line := lineFor(scheduler.Event{TaskID: "t", Status: status})
		assert.Contains(t, line, "t")
	}
}

func TestModel_UpdateRendersLogPane(t *testing.T) {
	t.Parallel()

	events := make(chan scheduler.Event)
	logs := make(chan []byte)
	m := New(events, logs)

	next, cmd := m.Update(logMsg("first line"))
	m = next.(*Model)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"first line"}, m.logLines)
	assert.NotPanics(t, func() { m.View() })
}

func TestModel_LogPaneCapsScrollback(t *testing.T) {
	t.Parallel()

	events := make(chan scheduler.Event)
	logs := make(chan []byte)
	m := New(events, logs)

	for i := 0; i < maxLogRecent+3; i++ {
		next, _ := m.Update(logMsg("line"))
		m = next.(*Model)
	}

	assert.Len(t, m.logLines, maxLogRecent)
}

func TestModel_InitBatchesLogLoopWhenLogsProvided(t *testing.T) {
	t.Parallel()

	events := make(chan scheduler.Event)
	logs := make(chan []byte)
	m := New(events, logs)

	assert.NotNil(t, m.Init())
}

func TestNewChannel_ForwardsAndCloses(t *testing.T) {
	t.Parallel()

	report, events, closer := NewChannel(4)

	report(scheduler.Event{TaskID: "x", Status: scheduler.StatusRan})
	closer()
	closer() // must be safe to call twice

	select {
	case ev, ok := <-events:
		require.True(t, ok)
		assert.Equal(t, "x", ev.TaskID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}

	_, ok := <-events
	assert.False(t, ok, "channel should be closed after draining")
}
