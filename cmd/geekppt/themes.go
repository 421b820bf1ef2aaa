package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the registered theme plugins",
	Run: func(cmd *cobra.Command, args []string) {
		profile := termenv.ColorProfile()
		reg := theme.NewBuiltinRegistry()
		w := cmd.OutOrStdout()
		for _, p := range reg.ListAll() {
			marker := " "
			if p.ID == cfg.Render.DefaultPlugin {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s %-10s %-8s %-6s %s\n",
				marker, swatches(profile, p.Colors), p.ID, p.Version, p.Appearance, p.DisplayName)
		}
	},
}

// swatches renders the theme's representative colours as blocks.
func swatches(profile termenv.Profile, c theme.Colors) string {
	var b strings.Builder
	for _, hex := range []string{c.Background, c.Foreground, c.Accent, c.Muted} {
		if hex == "" {
			b.WriteString("  ")
			continue
		}
		b.WriteString(termenv.String("  ").Background(profile.Color(hex)).String())
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
