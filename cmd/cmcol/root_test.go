package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the per-user settings file into a temp dir.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// musicDir holds one tagged MP3 and one text file.
func musicDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	tag := id3v2.NewEmptyTag()
	tag.SetTitle("X")
	tag.SetYear("2000")
	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
	buf.Write(frame)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mp3"), buf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("liner notes"), 0o644))
	return root
}

func TestRun_Help(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI(t, "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "cmcol [DIR]")
	assert.Contains(t, stdout, "--relative-names")
	assert.NotContains(t, stdout, "<?xml")
}

func TestRun_Version(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, Version)
	assert.NotContains(t, stdout, "<?xml")
}

func TestRun_UsageErrors(t *testing.T) {
	isolate(t)
	root := musicDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"too many arguments", []string{root, root}},
		{"input twice", []string{"-i", root, root}},
		{"zero jobs", []string{"-j", "0", root}},
		{"bad log level", []string{"--log-level", "loud", root}},
		{"jobs not a number", []string{"-j", "many", root}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestRun_InvalidRoot(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.xml")

	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	for _, root := range []string{filepath.Join(dir, "nope"), file} {
		code, stdout, stderr := runCLI(t, "-o", dest, root)
		assert.Equal(t, exitUsage, code, root)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "invalid scan root")
		assert.NoFileExists(t, dest)
	}
}

func TestRun_Stdout(t *testing.T) {
	isolate(t)
	root := musicDir(t)

	code, stdout, stderr := runCLI(t, root)
	require.Equal(t, exitOK, code, stderr)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<collection root="` + root + `">
  <file name="/a.mp3">
    <title>X</title>
    <year>2000</year>
  </file>
</collection>
`
	assert.Equal(t, want, stdout)
}

func TestRun_InputFlagAndFile(t *testing.T) {
	isolate(t)
	root := musicDir(t)
	dest := filepath.Join(t.TempDir(), "catalog.xml")

	code, stdout, stderr := runCLI(t, "-i", root, "-o", dest, "-j", "4")
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<file name="/a.mp3">`)
	assert.NoFileExists(t, dest+".lock")
}

func TestRun_Verbose(t *testing.T) {
	isolate(t)
	root := musicDir(t)
	canonical, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	code, stdout, stderr := runCLI(t, "-v", root)
	require.Equal(t, exitOK, code, stderr)

	first, rest, ok := strings.Cut(stdout, "\n")
	require.True(t, ok)
	assert.Equal(t, canonical, first)
	assert.True(t, strings.HasPrefix(rest, "<?xml"))
}

func TestRun_Exclude(t *testing.T) {
	isolate(t)
	root := musicDir(t)

	code, stdout, stderr := runCLI(t, "-x", "*.mp3", root)
	require.Equal(t, exitOK, code, stderr)
	assert.NotContains(t, stdout, "<file")
}

func TestRun_UnwritableDestination(t *testing.T) {
	isolate(t)
	root := musicDir(t)
	dest := filepath.Join(t.TempDir(), "missing", "catalog.xml")

	code, stdout, stderr := runCLI(t, "-o", dest, root)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "cannot open destination")
}

func TestRun_ConfigFile(t *testing.T) {
	isolate(t)
	root := musicDir(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "from-config.xml")
	cfg := filepath.Join(dir, "cmcol.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output: "+dest+"\njobs: 2\n"), 0o644))

	code, stdout, stderr := runCLI(t, "-c", cfg, root)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
	assert.FileExists(t, dest)

	// Flags win over the file.
	code, stdout, stderr = runCLI(t, "-c", cfg, "-o", "-", root)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "<collection")
}

func TestRun_DebugLogging(t *testing.T) {
	isolate(t)
	root := musicDir(t)

	code, _, stderr := runCLI(t, "--log-level", "debug", root)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Skipping")
	assert.Contains(t, stderr, "notes.txt")
}
