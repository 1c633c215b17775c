// Package tui provides a Bubble Tea terminal user interface for eegbci-downloader.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neurosift/eegbci-downloader/internal/config"
	"github.com/neurosift/eegbci-downloader/internal/dataset"
	"github.com/neurosift/eegbci-downloader/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state        State
	subjectInput textinput.Model
	runsInput    textinput.Model
	focusRuns    bool
	spinner      spinner.Model
	progress     progress.Model
	settings     *config.Settings
	logs         []LogEntry
	paths        []string
	err          error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// Events from the manager goroutine
	events chan tea.Msg

	// Download progress
	doneFiles  int32
	totalFiles int32

	// Byte progress of the file currently transferring
	written int64
	total   int64

	// Options
	force      bool
	updatePath bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	si := textinput.New()
	si.Placeholder = "1-109"
	si.Focus()
	si.CharLimit = 3
	si.Width = 10

	ri := textinput.New()
	ri.Placeholder = "4,10,14"
	ri.CharLimit = 60
	ri.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateInput,
		subjectInput: si,
		runsInput:    ri,
		spinner:      sp,
		progress:     prog,
		settings:     config.DefaultSettings(),
		logs:         make([]LogEntry, 0),
		ctx:          ctx,
		cancel:       cancel,
		events:       make(chan tea.Msg, 64),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when a manager progress event arrives.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// TransferMsg reports byte progress of the current file.
	TransferMsg struct {
		Written int64
		Total   int64
	}

	// DownloadDoneMsg is sent when the whole request completes.
	DownloadDoneMsg struct {
		Paths []string
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				m.focusRuns = !m.focusRuns
				if m.focusRuns {
					m.subjectInput.Blur()
					m.runsInput.Focus()
				} else {
					m.runsInput.Blur()
					m.subjectInput.Focus()
				}
			}

		case "enter":
			if m.state == StateInput && m.subjectInput.Value() != "" && m.runsInput.Value() != "" {
				subject, runs, err := m.parseInputs()
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.state = StateDownloading
				return m, tea.Batch(m.startDownload(subject, runs), m.waitForEvent(), m.spinner.Tick, m.tickProgress())
			}

		case "f":
			if m.state == StateInput && !m.focusRuns {
				m.force = !m.force
			}

		case "u":
			if m.state == StateInput && !m.focusRuns {
				m.updatePath = !m.updatePath
			}

		case "v":
			if m.state == StateInput && !m.focusRuns {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new request
				m.state = StateInput
				m.logs = nil
				m.paths = nil
				m.err = nil
				m.doneFiles = 0
				m.totalFiles = 0
				m.written = 0
				m.total = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.events = make(chan tea.Msg, 64)
				m.subjectInput.SetValue("")
				m.runsInput.SetValue("")
				m.runsInput.Blur()
				m.subjectInput.Focus()
				m.focusRuns = false
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case TransferMsg:
		m.written = msg.Written
		m.total = msg.Total
		cmds = append(cmds, m.waitForEvent())

	case DownloadDoneMsg:
		m.paths = msg.Paths
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			done, total := m.manager.GetProgress()
			m.doneFiles = done
			m.totalFiles = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		var cmd tea.Cmd
		if m.focusRuns {
			m.runsInput, cmd = m.runsInput.Update(msg)
		} else {
			m.subjectInput, cmd = m.subjectInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent returns a command that delivers the next manager event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("EEGBCI Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fetch EEG motor imagery recordings from PhysioNet"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Subject (1-109):"))
	b.WriteString("\n")
	b.WriteString(m.subjectInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Runs (1-14, comma-separated):"))
	b.WriteString("\n")
	b.WriteString(m.runsInput.View())
	b.WriteString("\n\n")

	// Options
	forceCheck := "[ ]"
	if m.force {
		forceCheck = "[x]"
	}
	updateCheck := "[ ]"
	if m.updatePath {
		updateCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Force re-download (f)\n", forceCheck))
	b.WriteString(fmt.Sprintf("  %s Remember data path (u)\n", updateCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")

	dataPath, err := config.ResolveDataPath("", m.settings)
	if err == nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Data path: %s", dataPath)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading recordings..."))
	b.WriteString("\n\n")

	// Progress bar over requested files
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.doneFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	status := fmt.Sprintf("Files: %d/%d", m.doneFiles, m.totalFiles)
	if m.total > 0 {
		status += fmt.Sprintf(" | Current: %.2f/%.2f MB",
			float64(m.written)/1024/1024, float64(m.total)/1024/1024)
	}
	b.WriteString(infoStyle.Render(status))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Download Complete!\n\n"+
			"Recordings: %d",
		len(m.paths),
	))
	b.WriteString(box)
	b.WriteString("\n\n")

	for _, p := range m.paths {
		b.WriteString(pathStyle.Render("  " + p))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "*"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: switch field • f: force • u: remember path • v: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

func (m *Model) parseInputs() (int, []int, error) {
	subject, err := strconv.Atoi(strings.TrimSpace(m.subjectInput.Value()))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid subject %q", m.subjectInput.Value())
	}
	if subject < dataset.MinSubject || subject > dataset.MaxSubject {
		return 0, nil, fmt.Errorf("subject must be in range %d-%d", dataset.MinSubject, dataset.MaxSubject)
	}

	var runs []int
	for _, field := range strings.Split(m.runsInput.Value(), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		run, err := strconv.Atoi(field)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid run %q", field)
		}
		runs = append(runs, run)
	}
	if len(runs) == 0 {
		return 0, nil, fmt.Errorf("no runs given")
	}

	return subject, runs, nil
}

// startDownload runs the request in the background, forwarding manager
// events through the events channel.
func (m *Model) startDownload(subject int, runs []int) tea.Cmd {
	events := m.events
	ctx := m.ctx
	settings := m.settings
	force := m.force

	updatePath := config.PathUpdateUnspecified
	if m.updatePath {
		updatePath = config.PathUpdateYes
	}

	manager := download.NewManager(settings, config.DefaultSettingsPath(), func(event download.ProgressEvent) {
		select {
		case events <- ProgressMsg{Event: event}:
		default:
		}
	})
	manager.OnTransferProgress = func(written, total int64) {
		select {
		case events <- TransferMsg{Written: written, Total: total}:
		default:
		}
	}
	m.manager = manager

	return func() tea.Msg {
		paths, err := manager.LoadData(ctx, download.Request{
			Subject:     subject,
			Runs:        runs,
			ForceUpdate: force,
			UpdatePath:  updatePath,
		})
		return DownloadDoneMsg{Paths: paths, Err: err}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
