package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tagtile/internal/layout"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.yaml")
}

func writeFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestLayoutList(t *testing.T) {
	path := writeFile(t,
		"default_layout: wide",
		"layouts:",
		"  wide: {inherits: tilebottom, columns: 2}",
	)
	out, _, err := execute(t, "--config", path, "layout", "list")
	require.NoError(t, err)

	for _, want := range []string{"tile", "tileleft", "tilebottom", "tiletop", "wide *", "bottom"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "tiletop"), strings.Index(out, "wide *"))
}

func TestPreview_MasterStackScenario(t *testing.T) {
	out, _, err := execute(t, "--config", missingConfig(t), "preview",
		"--windows", "5", "--width", "1200", "--height", "800",
		"--fraction", "0.6", "--columns", "0",
		"--cols", "60", "--rows", "20", "--table")
	require.NoError(t, err)

	assert.Contains(t, out, "tile on 1200x800+0+0: stack right, master 1, fraction 0.60, columns 1")
	assert.Contains(t, out, "720x800+0+0")
	assert.Contains(t, out, "480x200+720+600")
	assert.Contains(t, out, "5 windows • min 480×200 • max 720×800")
}

func TestPreview_Overrides(t *testing.T) {
	out, _, err := execute(t, "--config", missingConfig(t), "preview",
		"--windows", "2", "--width", "1000", "--height", "500",
		"--orientation", "bottom", "--border", "2",
		"--cols", "40", "--rows", "10", "--table")
	require.NoError(t, err)

	assert.Contains(t, out, "stack bottom")
	assert.Contains(t, out, "1000x250+0+0")
	assert.Contains(t, out, "996x246+0+0")
}

func TestPreview_InvalidParams(t *testing.T) {
	_, _, err := execute(t, "--config", missingConfig(t), "preview", "--fraction", "1.5", "--cols", "20", "--rows", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrInvalidParams)

	_, _, err = execute(t, "--config", missingConfig(t), "preview", "--orientation", "diagonal")
	require.Error(t, err)

	_, _, err = execute(t, "--config", missingConfig(t), "preview", "--layout", "nope")
	require.Error(t, err)
}

func TestRenderPreview_DrawsEveryWindow(t *testing.T) {
	params := layout.Params{MasterCount: 1, MasterFraction: 0.5, Columns: 1}
	out, err := renderPreview("tile", params, previewOptions{windows: 3, width: 1920, height: 1080, cols: 40, rows: 12})
	require.NoError(t, err)
	for _, label := range []string{"1", "2", "3"} {
		assert.Contains(t, out, label)
	}
	assert.NotContains(t, out, "geometry")

	_, err = renderPreview("tile", params, previewOptions{windows: -1, width: 100, height: 100})
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	out, _, err := execute(t, "--config", missingConfig(t), "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "using defaults")

	good := writeFile(t, "default_layout: tileleft")
	out, _, err = execute(t, "--config", good, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "config: ok (1 files)")

	bad := writeFile(t, "default_layout: nope")
	_, _, err = execute(t, "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_layout")
}

func TestConfigPrint(t *testing.T) {
	path := writeFile(t, "default_layout: tiletop")

	out, _, err := execute(t, "--config", path, "config", "print")
	require.NoError(t, err)
	assert.Contains(t, out, "default_layout: tiletop")

	out, _, err = execute(t, "--config", path, "config", "print", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "default_layout: tile\n")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagtile", "config.yaml")

	out, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote defaults to "+path)

	out, _, err = execute(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "config: ok (1 files)")

	require.NoError(t, os.WriteFile(path, []byte("default_layout: tiletop\n"), 0644))
	_, _, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "default_layout: tiletop\n", string(data))

	_, _, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
	out, _, err = execute(t, "--config", path, "config", "explain", "default_layout")
	require.NoError(t, err)
	assert.Contains(t, out, "source: file:")
	assert.Contains(t, out, "tile")
}

func TestConfigExplain(t *testing.T) {
	path := writeFile(t, "fraction_step: 0.1")

	out, _, err := execute(t, "--config", path, "config", "explain", "fraction_step")
	require.NoError(t, err)
	assert.Contains(t, out, "source: file:")
	assert.Contains(t, out, "config.yaml:1:")
	assert.Contains(t, out, "0.1")

	out, _, err = execute(t, "--config", path, "config", "explain", "layouts.tiletop.orientation")
	require.NoError(t, err)
	assert.Contains(t, out, "source: builtin:tiletop")
	assert.Contains(t, out, "top")

	_, _, err = execute(t, "--config", path, "config", "explain")
	require.Error(t, err)
}

func TestVerboseLogsConfigLoad(t *testing.T) {
	_, stderr, err := execute(t, "--config", missingConfig(t), "--verbose", "layout", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "config loaded")

	_, stderr, err = execute(t, "--config", missingConfig(t), "layout", "list")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "config loaded")
}
