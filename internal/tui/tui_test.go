package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/cmcol/internal/config"
	"github.com/handiism/cmcol/internal/export"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNewModel_Prefill(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LastInput = "/srv/music"

	m := NewModel(settings, "")
	assert.Equal(t, StateInput, m.state)
	assert.Equal(t, "/srv/music", m.rootValue())
	assert.Equal(t, DefaultOutput, m.outputValue())

	settings.Output = "mine.xml"
	assert.Equal(t, "mine.xml", NewModel(settings, "").outputValue())
}

func TestModel_FocusAndToggles(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	assert.Equal(t, fieldRoot, m.focus)

	m, _ = update(t, m, key("tab"))
	assert.Equal(t, fieldOutput, m.focus)
	m, _ = update(t, m, key("tab"))
	assert.Equal(t, fieldRoot, m.focus)

	m, _ = update(t, m, key("ctrl+n"))
	assert.True(t, m.relativeNames)
	m, _ = update(t, m, key("ctrl+e"))
	assert.True(t, m.verbose)
	assert.Contains(t, m.View(), "[×] Separator-aligned names")
}

func TestModel_InvalidRoot(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LastInput = filepath.Join(t.TempDir(), "missing")

	m := NewModel(settings, "")
	m, _ = update(t, m, key("enter"))

	assert.Equal(t, StateError, m.state)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error occurred")

	m, _ = update(t, m, key("r"))
	assert.Equal(t, StateInput, m.state)
	assert.NoError(t, m.err)
}

func TestModel_StdoutRejected(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LastInput = t.TempDir()

	m := NewModel(settings, "")
	m.inputs[fieldOutput].SetValue("-")
	m, _ = update(t, m, key("enter"))

	assert.Equal(t, StateError, m.state)
	assert.EqualError(t, m.err, "choose an output file")
}

func TestModel_ExportFlow(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not audio"), 0o644))

	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.xml")
	configPath := filepath.Join(dir, "config", "config.json")

	settings := config.DefaultSettings()
	settings.LastInput = root

	m := NewModel(settings, configPath)
	m.inputs[fieldOutput].SetValue(dest)
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, StateScanning, m.state)

	// LastInput is remembered.
	saved, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, root, saved.LastInput)

	done, ok := m.startExport()().(ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, 1, done.Summary.Files)
	assert.Equal(t, 0, done.Summary.Catalogued)

	m, _ = update(t, m, done)
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Catalog written")
	assert.Contains(t, m.View(), "Skipped: 1")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<collection root=")
}

func TestModel_ProgressLogs(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")

	m, _ = update(t, m, ProgressMsg{Event: export.ProgressEvent{Message: "hidden", Level: export.LevelVerbose}})
	assert.Empty(t, m.logs)

	for i := 0; i < maxLogs+5; i++ {
		m, _ = update(t, m, ProgressMsg{Event: export.ProgressEvent{Message: "found", Level: export.LevelInfo}})
	}
	assert.Len(t, m.logs, maxLogs)
}

func TestModel_EscCancels(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LastInput = t.TempDir()

	m := NewModel(settings, "")
	m.inputs[fieldOutput].SetValue(filepath.Join(t.TempDir(), "out.xml"))
	m, _ = update(t, m, key("enter"))
	require.Equal(t, StateScanning, m.state)

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, StateError, m.state)
	assert.ErrorIs(t, m.err, errCancelled)
	assert.Error(t, m.ctx.Err())
}

func TestModel_DropsMessagesFromEarlierRun(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LastInput = t.TempDir()

	m := NewModel(settings, "")
	m.inputs[fieldOutput].SetValue(filepath.Join(t.TempDir(), "out.xml"))
	m, _ = update(t, m, key("enter"))
	require.Equal(t, StateScanning, m.state)
	first := m

	m, _ = update(t, m, key("esc"))
	require.Equal(t, StateError, m.state)
	m, _ = update(t, m, key("r"))
	require.Equal(t, StateInput, m.state)
	m, _ = update(t, m, key("enter"))
	require.Equal(t, StateScanning, m.state)
	require.NotEqual(t, first.run, m.run)

	stale, ok := first.startExport()().(ExportDoneMsg)
	require.True(t, ok)
	require.Error(t, stale.Err)

	m, _ = update(t, m, stale)
	assert.Equal(t, StateScanning, m.state)
	assert.NoError(t, m.err)

	m, _ = update(t, m, ProgressMsg{Run: first.run, Event: export.ProgressEvent{Message: "old", Level: export.LevelInfo}})
	assert.Empty(t, m.logs)

	done, ok := m.startExport()().(ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	m, _ = update(t, m, done)
	assert.Equal(t, StateComplete, m.state)
}
