package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huatuo-dr/geek-ppt/internal/project"
)

// readInput reads path, or stdin when path is "" or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// loadProject opens a .geekppt archive, or builds a project with one slide
// per markdown input. No inputs reads a single slide from stdin.
func loadProject(inputs []string) (*project.Project, error) {
	if len(inputs) == 1 && strings.EqualFold(filepath.Ext(inputs[0]), project.Extension) {
		return project.ReadFile(inputs[0])
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	slides := make([]string, 0, len(inputs))
	for _, in := range inputs {
		data, err := readInput(in)
		if err != nil {
			return nil, err
		}
		slides = append(slides, string(data))
	}
	name := ""
	if in := inputs[0]; in != "-" {
		name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}
	p := project.FromMarkdown(name, slides...)
	p.PluginConfig.ActivePluginID = cfg.Render.DefaultPlugin
	return p, nil
}

// applyProjectFlags overrides the project's theme and slide size when the
// corresponding flags were given.
func applyProjectFlags(p *project.Project, plugin, size string) error {
	if plugin != "" {
		p.PluginConfig.ActivePluginID = plugin
	}
	if size != "" {
		s, err := project.PresetByLabel(size)
		if err != nil {
			return err
		}
		p.SlideSize = s
	}
	return nil
}

func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
