package progress

import (
	"fmt"
	"strings"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/spraakbanken/sparv/scheduler"
)

var (
	styleRan     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTotal   = lipgloss.NewStyle().Bold(true)
)

// eventMsg wraps one scheduler.Event as a tea.Msg.
type eventMsg scheduler.Event

// logMsg wraps one entry read from a log.Publisher subscription.
type logMsg string

// doneMsg signals the event channel closed -- the run is over.
type doneMsg struct{}

const (
	maxRecent    = 10
	maxLogRecent = 5
)

var styleLog = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// Model is a bubbletea Model rendering a live view of one scheduler run,
// driven by scheduler.Event values arriving over a channel (see
// NewChannel) and, optionally, log entries from a log.Publisher
// subscription (see log.Publisher.Subscribe), rendered below the task
// scroll the same way the teacher's Publisher doc describes: "for
// displaying logs inside a Bubble Tea TUI."
type Model struct {
	events   <-chan scheduler.Event
	logs     <-chan []byte
	counts   map[scheduler.Status]int
	recent   []scheduler.Event
	logLines []string
}

// New returns a Model that reads events from ch until it closes. An
// optional logs channel (a log.Subscription's C()) is rendered as a
// scrolling log pane alongside the task events.
func New(ch <-chan scheduler.Event, logs ...<-chan []byte) *Model {
	m := &Model{events: ch, counts: map[scheduler.Status]int{}}

	if len(logs) > 0 {
		m.logs = logs[0]
	}

	return m
}

// Init starts the event-reading loop, and the log-reading loop if a logs
// channel was supplied.
func (m *Model) Init() tea.Cmd {
	if m.logs == nil {
		return m.waitForEvent()
	}

	return tea.Batch(m.waitForEvent(), m.waitForLog())
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}

		return eventMsg(ev)
	}
}

func (m *Model) waitForLog() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.logs
		if !ok {
			return nil
		}

		return logMsg(strings.TrimRight(string(line), "\n"))
	}
}

// Update handles incoming events and quit keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := scheduler.Event(msg)
		m.counts[ev.Status]++
		m.recent = append(m.recent, ev)

		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}

		return m, m.waitForEvent()
	case logMsg:
		m.logLines = append(m.logLines, string(msg))

		if len(m.logLines) > maxLogRecent {
			m.logLines = m.logLines[len(m.logLines)-maxLogRecent:]
		}

		return m, m.waitForLog()
	case doneMsg:
		return m, tea.Quit
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the recent-events scroll, the log pane (if any entries
// have arrived), and a running tally.
func (m *Model) View() tea.View {
	var b strings.Builder

	for _, ev := range m.recent {
		b.WriteString(lineFor(ev))
		b.WriteByte('\n')
	}

	for _, line := range m.logLines {
		b.WriteString(styleLog.Render(line))
		b.WriteByte('\n')
	}

	b.WriteString(styleTotal.Render(summary(m.counts)))

	return tea.NewView(b.String())
}

func lineFor(ev scheduler.Event) string {
	switch ev.Status {
	case scheduler.StatusRan:
		return styleRan.Render("done  " + ev.TaskID)
	case scheduler.StatusFailed:
		return styleFailed.Render("fail  " + ev.TaskID)
	case scheduler.StatusSkipped:
		return styleSkipped.Render("skip  " + ev.TaskID)
	case scheduler.StatusNotRun:
		return styleSkipped.Render("would-run  " + ev.TaskID)
	case scheduler.StatusRunning:
		return styleRunning.Render("run   " + ev.TaskID)
	default:
		return ev.TaskID
	}
}

func summary(counts map[scheduler.Status]int) string {
	return fmt.Sprintf("ran=%d skipped=%d failed=%d not-run=%d",
		counts[scheduler.StatusRan], counts[scheduler.StatusSkipped],
		counts[scheduler.StatusFailed], counts[scheduler.StatusNotRun])
}

// Run drives a bubbletea program over ch until it closes, rendering a
// live view of a run to the terminal. Run it in its own goroutine
// alongside Scheduler.Run, fed through Options.Progress via NewChannel.
// An optional logs channel renders as a scrolling log pane underneath the
// task events; pass a log.Subscription's C() to surface slog output
// inside the TUI instead of interleaving it with the rendered frame.
func Run(ch <-chan scheduler.Event, logs ...<-chan []byte) error {
	_, err := tea.NewProgram(New(ch, logs...)).Run()
	return err
}

// NewChannel returns a scheduler.Options.Progress callback forwarding
// every Event onto the returned channel, and a closer the caller must
// invoke once Scheduler.Run returns so Run's bubbletea program exits.
func NewChannel(buffer int) (report func(scheduler.Event), events <-chan scheduler.Event, closer func()) {
	ch := make(chan scheduler.Event, buffer)

	var once sync.Once

	return func(ev scheduler.Event) { ch <- ev },
		ch,
		func() { once.Do(func() { close(ch) }) }
}
