package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/termview"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

var previewCmd = &cobra.Command{
	Use:   "preview [project.geekppt | slide.md...]",
	Short: "Preview slides in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		plugin, _ := cmd.Flags().GetString("plugin")
		width, _ := cmd.Flags().GetInt("width")

		p, err := loadProject(args)
		if err != nil {
			return err
		}
		if err := applyProjectFlags(p, plugin, ""); err != nil {
			return err
		}

		var style *theme.Plugin
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		if isTTY {
			reg := theme.NewBuiltinRegistry()
			id, css := project.ResolveTheme(p)
			if css != nil {
				if base, ok := override.DetectBase(*css); ok {
					id = base
				}
			}
			if style, _ = reg.Lookup(id); style == nil {
				style, _ = reg.Lookup(cfg.Render.DefaultPlugin)
			}
		}
		if width <= 0 {
			width = terminalWidth()
		}

		slides := make([]string, len(p.Slides))
		for i, s := range p.Slides {
			slides[i] = s.MarkdownContent
		}
		out, err := termview.Deck(slides, style, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

// terminalWidth is the width of stdout, or the preview default when stdout
// is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return termview.DefaultWidth
	}
	return w
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringP("plugin", "p", "", "Theme plugin or custom theme id")
	previewCmd.Flags().IntP("width", "w", 0, "Wrap width (default terminal width)")
}
