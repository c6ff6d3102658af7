// Package tui provides a Bubble Tea terminal user interface for cmcol.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/cmcol/internal/audio"
	"github.com/handiism/cmcol/internal/config"
	"github.com/handiism/cmcol/internal/export"
	ioutils "github.com/handiism/cmcol/internal/io"
)

// DefaultOutput is proposed when the settings write to stdout, which the
// full-screen interface occupies.
const DefaultOutput = "catalog.xml"

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateComplete
	StateError
)

// Input fields, in tab order.
const (
	fieldRoot = iota
	fieldOutput
	fieldCount
)

// errCancelled is shown when the user aborts a run.
var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   export.ProgressLevel
}

// Summary describes a finished export.
type Summary struct {
	Root       string
	Output     string
	Files      int
	Catalogued int
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model

	settings   *config.Settings
	configPath string

	logs    []LogEntry
	summary Summary
	err     error

	// Export context
	ctx    context.Context
	cancel context.CancelFunc

	exporter *export.Exporter
	events   chan export.ProgressEvent
	// run numbers the exports started from this model; messages from an
	// earlier run are dropped.
	run int

	// Probe progress
	probedFiles int32
	totalFiles  int32

	// Options
	relativeNames bool
	verbose       bool

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// Parameters:
//   - settings: Starting values; LastInput and Output prefill the fields
//   - configPath: Where LastInput is remembered, "" to never save
func NewModel(settings *config.Settings, configPath string) Model {
	root := textinput.New()
	root.Placeholder = "/path/to/music"
	root.SetValue(settings.LastInput)
	root.Focus()
	root.CharLimit = 4096
	root.Width = 60
	root.Prompt = "Directory: "

	output := textinput.New()
	output.Placeholder = DefaultOutput
	output.CharLimit = 4096
	output.Width = 60
	output.Prompt = "Output:    "
	if settings.Output != ioutils.StdoutName {
		output.SetValue(settings.Output)
	} else {
		output.SetValue(DefaultOutput)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:         StateInput,
		inputs:        []textinput.Model{root, output},
		spinner:       sp,
		progress:      prog,
		settings:      settings,
		configPath:    configPath,
		logs:          make([]LogEntry, 0),
		ctx:           ctx,
		cancel:        cancel,
		relativeNames: settings.RelativeNames,
		verbose:       settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one exporter progress event.
	ProgressMsg struct {
		Run   int
		Event export.ProgressEvent
	}

	// ExportDoneMsg is sent when the export finishes.
	ExportDoneMsg struct {
		Run     int
		Summary Summary
		Err     error
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
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
			if m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "tab", "shift+tab", "up", "down":
			if m.state == StateInput {
				step := 1
				if s := msg.String(); s == "shift+tab" || s == "up" {
					step = fieldCount - 1
				}
				m.setFocus((m.focus + step) % fieldCount)
				return m, nil
			}

		case "enter":
			if m.state == StateInput && m.rootValue() != "" {
				if err := m.prepare(); err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.state = StateScanning
				return m, tea.Batch(m.startExport(), m.listen(), m.tickProgress(), m.spinner.Tick)
			}

		case "ctrl+n":
			if m.state == StateInput {
				m.relativeNames = !m.relativeNames
			}

		case "ctrl+e":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Run != m.run {
			return m, nil
		}
		cmds = append(cmds, m.listen())
		if msg.Event.Level == export.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case ExportDoneMsg:
		if msg.Run != m.run || m.state != StateScanning {
			return m, nil
		}
		m.summary = msg.Summary
		m.probedFiles, m.totalFiles = m.exporter.GetProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.exporter != nil && m.state == StateScanning {
			m.probedFiles, m.totalFiles = m.exporter.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(field int) {
	m.inputs[m.focus].Blur()
	m.focus = field
	m.inputs[m.focus].Focus()
}

func (m Model) rootValue() string {
	return strings.TrimSpace(m.inputs[fieldRoot].Value())
}

func (m Model) outputValue() string {
	return strings.TrimSpace(m.inputs[fieldOutput].Value())
}

func (m Model) percent() float64 {
	if m.totalFiles == 0 {
		return 0
	}
	return float64(m.probedFiles) / float64(m.totalFiles)
}

// prepare validates the form, remembers the directory and creates the
// exporter for the run.
func (m *Model) prepare() error {
	root := m.rootValue()
	if _, err := ioutils.ResolveRoot(root); err != nil {
		return err
	}

	output := m.outputValue()
	if output == "" || output == ioutils.StdoutName {
		return errors.New("choose an output file")
	}

	m.settings.LastInput = root
	if m.configPath != "" {
		if err := m.settings.Save(m.configPath); err != nil {
			m.logs = append(m.logs, LogEntry{Message: fmt.Sprintf("Could not save settings: %v", err), Level: export.LevelWarning})
		}
	}

	settings := *m.settings
	settings.Output = output
	settings.RelativeNames = m.relativeNames
	settings.Verbose = m.verbose

	m.run++
	m.events = make(chan export.ProgressEvent, 64)
	events := m.events
	m.exporter = export.NewExporter(&settings, audio.DefaultProbe(), func(event export.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})
	return nil
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.summary = Summary{}
	m.probedFiles = 0
	m.totalFiles = 0
	m.exporter = nil
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.setFocus(fieldRoot)
}

// startExport runs the export in background.
func (m Model) startExport() tea.Cmd {
	exporter, events, ctx, run := m.exporter, m.events, m.ctx, m.run
	root, output := m.rootValue(), m.outputValue()

	return func() tea.Msg {
		defer close(events)

		done := ExportDoneMsg{Run: run, Summary: Summary{Root: root, Output: output}}

		collection, err := exporter.Build(ctx, root)
		if err != nil {
			done.Err = err
			return done
		}
		_, total := exporter.GetProgress()
		done.Summary.Files = int(total)
		done.Summary.Catalogued = collection.Len()

		if err := exporter.Write(collection, output); err != nil {
			done.Err = err
		}
		return done
	}
}

// listen waits for the next progress event of the running export.
func (m Model) listen() tea.Cmd {
	events, run := m.events, m.run
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Run: run, Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ cmcol"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Catalog a music collection as XML"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
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

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Scan a directory:"))
	b.WriteString("\n\n")
	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Separator-aligned names (ctrl+n)\n", checkbox(m.relativeNames)))
	b.WriteString(fmt.Sprintf("  %s Show skipped files (ctrl+e)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Parallel probes: %d", m.settings.Jobs)))
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Scanning %s...", m.rootValue())))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.probedFiles, m.totalFiles)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"✓ Catalog written!\n\n"+
			"Directory: %s\n"+
			"Files: %d\n"+
			"Catalogued: %d\n"+
			"Skipped: %d\n"+
			"Output: %s",
		m.summary.Root,
		m.summary.Files,
		m.summary.Catalogued,
		m.summary.Files-m.summary.Catalogued,
		m.summary.Output,
	))
	return box + "\n"
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case export.LevelError:
			style = errorStyle
			prefix = "✗"
		case export.LevelWarning:
			style = warningStyle
			prefix = "!"
		case export.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case export.LevelInfo:
			style = infoStyle
			prefix = "›"
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
		return "enter: start • tab: next field • ctrl+n: names • ctrl+e: verbose • esc: quit"
	case StateScanning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new catalog • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, configPath string) error {
	p := tea.NewProgram(NewModel(settings, configPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
