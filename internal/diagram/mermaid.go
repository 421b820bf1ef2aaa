package diagram

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"go.abhg.dev/goldmark/mermaid"
)

// MermaidEngine renders mermaid source through the mermaid CLI (mmdc). The
// active palette is written to a config file passed to every invocation.
type MermaidEngine struct {
	mu         sync.RWMutex
	compiler   *mermaid.CLICompiler
	dir        string
	configFile string
}

// NewMermaidEngine uses the mmdc binary at path ("" looks up "mmdc" on PATH).
func NewMermaidEngine(path string) (*MermaidEngine, error) {
	if path == "" {
		path = "mmdc"
	}
	dir, err := os.MkdirTemp("", "geekppt-mermaid-")
	if err != nil {
		return nil, fmt.Errorf("mermaid config dir: %w", err)
	}
	e := &MermaidEngine{dir: dir}
	e.compiler = &mermaid.CLICompiler{
		CLI: &configuredCLI{base: mermaid.MMDC(path), configFile: e.currentConfig},
	}
	return e, nil
}

func (e *MermaidEngine) Language() string { return Mermaid }

// mermaidConfig is the subset of the mermaid config file geek-ppt writes.
type mermaidConfig struct {
	Theme          string                 `json:"theme"`
	FontFamily     string                 `json:"fontFamily,omitempty"`
	SecurityLevel  string                 `json:"securityLevel"`
	ThemeVariables map[string]interface{} `json:"themeVariables,omitempty"`
}

// Configure writes the palette as a mermaid config file.
func (e *MermaidEngine) Configure(p Palette) error {
	cfg := mermaidConfig{
		Theme:          p.MermaidTheme,
		FontFamily:     p.FontFamily,
		SecurityLevel:  "loose",
		ThemeVariables: p.Variables,
	}
	if cfg.Theme == "" {
		cfg.Theme = "default"
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mermaid config: %w", err)
	}
	name := filepath.Join(e.dir, "config-"+p.ThemeID+".json")
	if err := os.WriteFile(name, data, 0o600); err != nil {
		return fmt.Errorf("write mermaid config: %w", err)
	}

	e.mu.Lock()
	e.configFile = name
	e.mu.Unlock()
	return nil
}

func (e *MermaidEngine) currentConfig() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.configFile
}

// Render runs mmdc and returns the SVG.
func (e *MermaidEngine) Render(ctx context.Context, source string) (string, error) {
	resp, err := e.compiler.Compile(ctx, &mermaid.CompileRequest{Source: source})
	if err != nil {
		return "", err
	}
	return resp.SVG, nil
}

// Close removes the engine's temporary config files.
func (e *MermaidEngine) Close() error {
	return os.RemoveAll(e.dir)
}

// configuredCLI appends --configFile to every mmdc invocation.
type configuredCLI struct {
	base       mermaid.CLI
	configFile func() string
}

func (c *configuredCLI) CommandContext(ctx context.Context, args ...string) *exec.Cmd {
	if f := c.configFile(); f != "" {
		args = append(args, "--configFile", f)
	}
	return c.base.CommandContext(ctx, args...)
}
