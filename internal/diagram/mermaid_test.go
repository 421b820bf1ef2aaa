package diagram

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCLI struct {
	args []string
}

func (r *recordingCLI) CommandContext(ctx context.Context, args ...string) *exec.Cmd {
	r.args = args
	return exec.CommandContext(ctx, "true")
}

func TestMermaidConfigureWritesThemeVariables(t *testing.T) {
	e, err := NewMermaidEngine("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	require.NoError(t, e.Configure(torrentPalette()))
	path := e.currentConfig()
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg mermaidConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, "base", cfg.Theme)
	assert.Equal(t, "loose", cfg.SecurityLevel)
	assert.Equal(t, "#fbbf24", cfg.ThemeVariables["pie1"])

	require.NoError(t, e.Configure(plainPalette()))
	require.NoError(t, json.Unmarshal(mustRead(t, e.currentConfig()), &cfg))
	assert.Equal(t, "default", cfg.Theme)
}

func TestConfiguredCLIAppendsConfigFile(t *testing.T) {
	rec := &recordingCLI{}
	cli := &configuredCLI{base: rec, configFile: func() string { return "/tmp/cfg.json" }}
	cli.CommandContext(context.Background(), "--input", "in.mmd")
	assert.Equal(t, []string{"--input", "in.mmd", "--configFile", "/tmp/cfg.json"}, rec.args)

	rec2 := &recordingCLI{}
	bare := &configuredCLI{base: rec2, configFile: func() string { return "" }}
	bare.CommandContext(context.Background(), "--input", "in.mmd")
	assert.Equal(t, []string{"--input", "in.mmd"}, rec2.args)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
