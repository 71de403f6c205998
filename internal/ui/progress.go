// Package ui renders run progress in the terminal using Bubbletea.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/lumipallolabs/reporter/internal/core"
)

// Spinner frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Timing constants
const (
	spinnerTickInterval = 80 * time.Millisecond
	dotAnimationSpeed   = 400 // milliseconds per frame
	progressBarWidth    = 30
)

// eventMsg wraps a controller event
type eventMsg struct {
	event core.Event
}

// eventsClosedMsg is sent when the event channel closes
type eventsClosedMsg struct{}

// spinnerTickMsg triggers spinner animation
type spinnerTickMsg struct{}

// folderLine is one root's entry in the run log
type folderLine struct {
	path    string
	status  string
	done    bool
	failed  bool
	current bool
}

// Model shows a boot-style log of folders as they are indexed
type Model struct {
	events <-chan core.Event
	cancel context.CancelFunc
	keys   KeyMap
	bar    progress.Model

	runID     string
	phase     core.RunPhase
	folders   []folderLine
	index     map[string]int
	completed int64
	total     int64
	cancelled bool
	width     int

	result   core.RunCompletedEvent
	finished bool
}

// NewModel creates a progress model reading from events. cancel is called
// when the user quits; the model keeps reading until the run completes.
func NewModel(events <-chan core.Event, cancel context.CancelFunc) Model {
	return Model{
		events: events,
		cancel: cancel,
		keys:   DefaultKeyMap(),
		bar: progress.New(
			progress.WithGradient("#5A4FCF", "#73F59F"),
			progress.WithWidth(progressBarWidth),
		),
		index: make(map[string]int),
	}
}

// Init starts listening for events and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tickSpinner())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func tickSpinner() tea.Cmd {
	return tea.Tick(spinnerTickInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.cancelled {
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case eventMsg:
		m.apply(msg.event)
		if m.finished {
			return m, tea.Quit
		}
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, tea.Quit

	case spinnerTickMsg:
		if m.finished {
			return m, nil
		}
		return m, tickSpinner()
	}

	return m, nil
}

// apply folds a controller event into the model
func (m *Model) apply(event core.Event) {
	switch e := event.(type) {
	case core.RunStartedEvent:
		m.runID = e.RunID
		m.folders = make([]folderLine, len(e.Roots))
		for i, root := range e.Roots {
			m.folders[i] = folderLine{path: root}
			m.index[root] = i
		}

	case core.PhaseChangedEvent:
		m.phase = e.Phase

	case core.FolderStartedEvent:
		m.completed, m.total = 0, 0
		if line := m.line(e.Path); line != nil {
			line.current = true
		}

	case core.ProgressEvent:
		m.completed = e.Progress.Completed
		m.total = e.Progress.Total

	case core.FolderCompletedEvent:
		if line := m.line(e.Path); line != nil {
			line.current = false
			line.done = true
			line.status = fmt.Sprintf("%s files · %s hashed", humanize.Comma(int64(e.Files)), humanize.Comma(e.Hashed))
			if e.Skipped > 0 {
				line.status += fmt.Sprintf(" · %d skipped", e.Skipped)
			}
		}

	case core.FolderFailedEvent:
		if line := m.line(e.Path); line != nil {
			line.current = false
			line.failed = true
			line.status = e.Err.Error()
		}

	case core.RunCompletedEvent:
		m.result = e
		m.finished = true
	}
}

func (m *Model) line(path string) *folderLine {
	i, ok := m.index[path]
	if !ok {
		return nil
	}
	return &m.folders[i]
}

// Result returns the completion event once the run has finished
func (m Model) Result() (core.RunCompletedEvent, bool) {
	return m.result, m.finished
}

// View renders the run log
func (m Model) View() string {
	if m.finished {
		return ""
	}

	spinnerIdx := int(time.Now().UnixMilli()/int64(spinnerTickInterval.Milliseconds())) % len(spinnerFrames)
	spinner := spinnerFrames[spinnerIdx]

	var lines []string
	title := TitleStyle.Render("REPORTER")
	if m.phase != core.PhaseIdle {
		title += MutedStyle.Render(" · " + m.phase.String())
	}
	lines = append(lines, title, "")

	for _, f := range m.folders {
		name := filepath.Base(f.path)
		switch {
		case f.done:
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				DoneStyle.Render("✓"), DoneStyle.Render(name), MutedStyle.Render("· "+f.status)))
		case f.failed:
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				FailedStyle.Render("✗"), FailedStyle.Render(name), MutedStyle.Render("· "+f.status)))
		case f.current:
			dots := strings.Repeat(".", (int(time.Now().UnixMilli()/dotAnimationSpeed)%3)+1)
			lines = append(lines, fmt.Sprintf("  %s %s", ActiveStyle.Render(spinner), ActiveStyle.Render(name+dots)))
			if m.total > 0 {
				fraction := float64(m.completed) / float64(m.total)
				counts := MutedStyle.Render(fmt.Sprintf(" %s/%s", humanize.Comma(m.completed), humanize.Comma(m.total)))
				lines = append(lines, "    "+m.bar.ViewAs(fraction)+counts)
			}
		default:
			lines = append(lines, "  "+MutedStyle.Render("· "+name))
		}
	}

	if m.cancelled {
		lines = append(lines, "", FailedStyle.Render("  Cancelling..."))
	}

	content := PanelStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, content, m.keys.HelpBar())
}

// Run shows progress until the run completes and returns its completion
// event
func Run(events <-chan core.Event, cancel context.CancelFunc, opts ...tea.ProgramOption) (core.RunCompletedEvent, error) {
	final, err := tea.NewProgram(NewModel(events, cancel), opts...).Run()
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return drain(events), err
	}

	if result, ok := final.(Model).Result(); ok {
		return result, nil
	}
	return drain(events), nil
}

// drain consumes remaining events so the controller can finish
func drain(events <-chan core.Event) core.RunCompletedEvent {
	var result core.RunCompletedEvent
	for event := range events {
		if e, ok := event.(core.RunCompletedEvent); ok {
			result = e
		}
	}
	return result
}
