// Package tui provides the interactive terminal UI for papercheck.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/papercheck/internal/checkfeed"
	"github.com/fentz26/papercheck/internal/models"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	stageStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	warnBannerStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// stateMsg carries a tracker transition into the Bubble Tea loop.
type stateMsg checkfeed.TaskState

// ProgressModel renders one check task's live progress.
type ProgressModel struct {
	taskID  string
	tracker *checkfeed.Tracker

	state    checkfeed.TaskState
	bar      progress.Model
	spin     spinner.Model
	width    int
	quitting bool
}

// RunProgress runs the progress view until the task reaches a terminal
// state, the load fails, or the user leaves. It returns the last observed
// state so the caller can record the outcome.
func RunProgress(ctx context.Context, taskID string, fetcher checkfeed.StatusFetcher, feed checkfeed.Feed) (checkfeed.TaskState, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	m := &ProgressModel{
		taskID: taskID,
		bar:    progress.New(progress.WithDefaultGradient()),
		spin:   sp,
		width:  80,
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))

	tracker := checkfeed.NewTracker(taskID, fetcher, feed, checkfeed.WithNotify(func(s checkfeed.TaskState) {
		p.Send(stateMsg(s))
	}))
	m.tracker = tracker
	m.state = tracker.Snapshot()

	final, err := p.Run()
	tracker.Stop()
	if err != nil {
		return tracker.Snapshot(), fmt.Errorf("progress view: %w", err)
	}
	if fm, ok := final.(*ProgressModel); ok {
		return fm.state, nil
	}
	return tracker.Snapshot(), nil
}

// Init implements tea.Model.
func (m *ProgressModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			m.tracker.Start(context.Background())
			return nil
		},
	)
}

// Update implements tea.Model.
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.tracker.Stop()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-8, 60)

	case stateMsg:
		m.state = checkfeed.TaskState(msg)
		if m.state.Phase == checkfeed.PhaseDone || m.state.Phase == checkfeed.PhaseLoadFailed {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Check " + m.taskID))
	b.WriteString("\n\n")

	switch m.state.Phase {
	case checkfeed.PhaseIdle, checkfeed.PhaseLoading:
		b.WriteString(fmt.Sprintf("  %s Loading check status...\n", m.spin.View()))

	case checkfeed.PhaseLoadFailed:
		b.WriteString(failureStyle.Render("  ✗ Unable to load check status"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("  Could not reach the checking service. The check may still be\n  running; try again later with: papercheck check watch " + m.taskID))
		b.WriteString("\n")

	case checkfeed.PhaseDone:
		m.renderTerminal(&b)

	default: // tracking
		pct := float64(m.state.Task.ProgressPercent) / 100
		b.WriteString("  " + m.bar.ViewAs(pct) + fmt.Sprintf("  %d%%\n\n", m.state.Task.ProgressPercent))

		stage := m.state.Task.CurrentStage
		if stage == "" {
			stage = string(m.state.Task.Status)
		}
		b.WriteString("  " + m.spin.View() + " " + stageStyle.Render(stage) + "\n")

		if m.state.Conn == checkfeed.StateExhausted {
			b.WriteString("\n" + warnBannerStyle.Render("Live connection lost. Showing last known progress;\nrun 'papercheck check status "+m.taskID+"' to re-check.") + "\n")
		}
	}

	if !m.quitting && m.state.Phase != checkfeed.PhaseDone {
		b.WriteString("\n" + helpStyle.Render("  q: leave (check keeps running)") + "\n")
	}
	return b.String()
}

func (m *ProgressModel) renderTerminal(b *strings.Builder) {
	task := m.state.Task
	if task.Status == models.CheckStatusCompleted {
		b.WriteString(successStyle.Render("  ✓ Check completed"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Result: %s\n", task.ResultID))
		b.WriteString(helpStyle.Render("  View it with: papercheck result show " + task.ResultID))
		b.WriteString("\n")
		return
	}

	// A failed check is a normal outcome of the protocol, rendered as a
	// result, not as an application error.
	b.WriteString(failureStyle.Render("  ✗ Check failed"))
	b.WriteString("\n\n")
	if task.ErrorMessage != "" {
		b.WriteString("  " + task.ErrorMessage + "\n")
	}
	b.WriteString(helpStyle.Render("  You can fix the paper and submit a new check."))
	b.WriteString("\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
