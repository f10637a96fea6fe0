// Package live renders the running timer and refreshes it every second.
package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kutbudev/tracker/internal/models"
)

// StatusFunc fetches the running entry; nil means idle.
type StatusFunc func(ctx context.Context) (*models.Entry, error)

// tickMsg asks the model to re-read the timer.
type tickMsg time.Time

// statusMsg carries the result of a StatusFunc call.
type statusMsg struct {
	entry *models.Entry
	err   error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the `status --live` Bubble Tea model.
type Model struct {
	status  StatusFunc
	now     func() time.Time
	loc     *time.Location
	spinner spinner.Model
	entry   *models.Entry
	err     error
	loaded  bool
}

// New creates a live status model polling status once a second.
func New(status StatusFunc, loc *time.Location, now func() time.Time) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return Model{status: status, now: now, loc: loc, spinner: sp}
}

// Init fetches the timer and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		entry, err := m.status(context.Background())
		return statusMsg{entry: entry, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case statusMsg:
		m.loaded = true
		m.entry = msg.entry
		m.err = msg.err
		return m, tick()

	case tickMsg:
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	var b strings.Builder
	switch {
	case !m.loaded:
		b.WriteString(m.spinner.View() + " loading timer...")
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", m.err)))
	case m.entry == nil:
		b.WriteString(dimStyle.Render("No timer running."))
	default:
		e := m.entry
		project, task := "", ""
		if e.Project != nil {
			project = e.Project.Name
		}
		if e.Task != nil {
			task = e.Task.Name
		}
		b.WriteString(m.spinner.View() + " " + titleStyle.Render(project+" / "+task))
		b.WriteString("  " + clockStyle.Render(models.HumanizeDuration(e.Elapsed(m.now()))))
		if e.Description != "" {
			b.WriteString("\n  " + e.Description)
		}
		b.WriteString("\n" + dimStyle.Render("  since "+e.StartTime.In(m.loc).Format("15:04:05")))
	}
	b.WriteString("\n" + dimStyle.Render("  q to quit") + "\n")
	return b.String()
}

// Run blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
