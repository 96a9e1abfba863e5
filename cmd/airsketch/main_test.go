package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/engine"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runConfig parses args with a fresh command carrying the config flags.
func runConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var cfg config.Config
	c := &cobra.Command{
		Use:           "test",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = loadConfig(cmd)
			return err
		},
	}
	addConfigFlags(c)
	c.SetArgs(args)
	err := c.Execute()
	return cfg, err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := runConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := runConfig(t, "--width", "0.05", "--radius", "0.2", "--color", "#FF0000", "--timeout", "2s")
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.StrokeWidth)
	assert.Equal(t, 0.2, cfg.ToolRadius)
	assert.Equal(t, "#FF0000", cfg.DefaultColor.Hex())
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, config.Default().TravelThreshold, cfg.TravelThreshold)
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airsketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stroke_width: 0.03\ntool_radius: 0.3\n"), 0o644))

	cfg, err := runConfig(t, "--config", path, "--radius", "0.4")
	require.NoError(t, err)
	assert.Equal(t, 0.03, cfg.StrokeWidth)
	assert.Equal(t, 0.4, cfg.ToolRadius)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"--width", "0"}},
		{"bad color", []string{"--color", "red"}},
		{"missing file", []string{"--config", "/nonexistent/airsketch.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runConfig(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("1, -2.5,0.25")
	require.NoError(t, err)
	assert.Equal(t, v3.Vec{X: 1, Y: -2.5, Z: 0.25}, p)

	for _, bad := range []string{"1,2", "1,2,3,4", "a,b,c", ""} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

const lineScript = `
(color "#00FF00")
(drag 0 0 0  0 0 0.01  0 0 0.02)
(drag 1 0 0  1 0 0.01  1 0 0.02)
`

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.airsketch")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestReplaySummary(t *testing.T) {
	path := writeScript(t, lineScript)
	svgPath := filepath.Join(t.TempDir(), "sketch.svg")

	var out bytes.Buffer
	require.NoError(t, replay(&out, engine.NewEngine(), path, svgPath))

	assert.Contains(t, out.String(), "Strokes:   2")
	assert.Contains(t, out.String(), "Groups:    0")
	assert.Contains(t, out.String(), "Color:     #00FF00")
	assert.Contains(t, out.String(), "Preview written to")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "fill:#00FF00")
}

func TestReplayReportsScriptErrors(t *testing.T) {
	path := writeScript(t, `(tool :lasso)`)

	var out bytes.Buffer
	err := replay(&out, engine.NewEngine(), path, "")
	assert.ErrorIs(t, err, errScript)
	assert.Contains(t, out.String(), "error:")
}

func TestReplayWarnsOnHeldTrigger(t *testing.T) {
	path := writeScript(t, `(trigger-down) (move-to 0 0 0.01) (move-to 0 0 0.02)`)

	var out bytes.Buffer
	require.NoError(t, replay(&out, engine.NewEngine(), path, ""))
	assert.Contains(t, out.String(), "warning: trigger still held")
	assert.Contains(t, out.String(), "Strokes:   1")
}

func TestReplayMissingScript(t *testing.T) {
	err := replay(&bytes.Buffer{}, engine.NewEngine(), filepath.Join(t.TempDir(), "none"), "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errScript)
}
