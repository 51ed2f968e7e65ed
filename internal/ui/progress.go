package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quoted/internal/driver"
)

// rows past this fold into a counter
const maxVisibleRows = 20

// segState is what a row shows for one segment.
type segState uint8

const (
	segQueued segState = iota
	segParsing
	segDone
	segCached
	segFailed
	segSkipped
)

var segStates = [...]struct {
	label  string
	color  string
	weight float64 // share of the progress bar
}{
	segQueued:  {"queued", "7", 0},
	segParsing: {"parsing", "6", 0.5},
	segDone:    {"done", "2", 1},
	segCached:  {"cached", "2", 1},
	segFailed:  {"error", "1", 1},
	segSkipped: {"skipped", "3", 1},
}

func (s segState) String() string { return segStates[s].label }

// pinned rows stay visible when the list is folded.
func (s segState) pinned() bool { return s == segParsing || s == segFailed }

func (s segState) render() string {
	st := segStates[s]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(st.color)).Render(fmt.Sprintf("%12s", st.label))
}

func stateOf(ev driver.Event) segState {
	switch ev.Status {
	case driver.StatusWorking:
		return segParsing
	case driver.StatusDone:
		if ev.Stage == driver.StageCache {
			return segCached
		}
		return segDone
	case driver.StatusError:
		return segFailed
	case driver.StatusSkipped:
		return segSkipped
	default:
		return segQueued
	}
}

type row struct {
	label string
	state segState
}

type progressModel struct {
	title   string
	phase   string
	events  <-chan driver.Event
	rows    []row
	bySeg   map[int]int
	width   int
	done    bool
	spinner spinner.Model
	bar     progress.Model
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders batch progress.
// Segments appear as the driver queues them; the model quits once events
// is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))

	return &progressModel{
		title:   title,
		phase:   "splitting",
		events:  events,
		bySeg:   make(map[int]int),
		width:   80,
		spinner: spin,
		bar:     bar,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// Ctrl+C only closes the UI; the caller cancels the batch via ctx
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.Segment < 0 {
		m.phase = batchPhase(ev)
		return nil
	}
	i, ok := m.bySeg[ev.Segment]
	if !ok {
		i = len(m.rows)
		m.bySeg[ev.Segment] = i
		m.rows = append(m.rows, row{label: ev.Label})
	}
	m.rows[i].state = stateOf(ev)
	return m.bar.SetPercent(m.completed())
}

func batchPhase(ev driver.Event) string {
	switch {
	case ev.Stage == driver.StageSplit:
		return "parsing"
	case ev.Status == driver.StatusError:
		return "failed"
	}
	return ""
}

func (m *progressModel) completed() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += segStates[r.state].weight
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	labelWidth := max(m.width-16, 20)
	for _, r := range m.visibleRows() {
		fmt.Fprintf(&b, "  %s %s\n", r.state.render(), truncate(r.label, labelWidth))
	}
	if hidden := len(m.rows) - maxVisibleRows; hidden > 0 {
		fmt.Fprintf(&b, "  %12s ... %d more\n", "", hidden)
	}
	b.WriteByte('\n')

	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows keeps in-flight and failed segments on screen when the
// batch is longer than the window, then fills up in batch order.
func (m *progressModel) visibleRows() []row {
	if len(m.rows) <= maxVisibleRows {
		return m.rows
	}
	out := make([]row, 0, maxVisibleRows)
	for _, pinned := range []bool{true, false} {
		for _, r := range m.rows {
			if len(out) == maxVisibleRows {
				return out
			}
			if r.state.pinned() == pinned {
				out = append(out, r)
			}
		}
	}
	return out
}

func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	default:
		return runewidth.Truncate(s, width, "...")
	}
}
