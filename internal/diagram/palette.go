package diagram

import "github.com/huatuo-dr/geek-ppt/internal/theme"

const fontStack = `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif`

func plainPalette() Palette {
	return Palette{
		ThemeID:      theme.Plain,
		MermaidTheme: "default",
		FontFamily:   fontStack,
		Text:         "#1a1a2e",
		Primary:      "#2563eb",
		Secondary:    "#e5e7eb",
		Tertiary:     "#f3f4f6",
		Line:         "#4b5563",
		Background:   "#ffffff",
	}
}

func coolPalette() Palette {
	return Palette{
		ThemeID:      theme.Cool,
		Dark:         true,
		MermaidTheme: "base",
		FontFamily:   fontStack,
		Text:         "#e2e8f0",
		Primary:      "#6366f1",
		Secondary:    "#ec4899",
		Tertiary:     "#06b6d4",
		Line:         "#8b5cf6",
		Background:   "#0f0c29",
		Variables: map[string]interface{}{
			"background":           "transparent",
			"fontFamily":           fontStack,
			"fontSize":             "14px",
			"primaryColor":         "rgba(99,102,241,0.22)",
			"primaryTextColor":     "#e2e8f0",
			"primaryBorderColor":   "#6366f1",
			"secondaryColor":       "rgba(236,72,153,0.18)",
			"secondaryTextColor":   "#e2e8f0",
			"secondaryBorderColor": "#ec4899",
			"tertiaryColor":        "rgba(6,182,212,0.15)",
			"tertiaryTextColor":    "#e2e8f0",
			"tertiaryBorderColor":  "#06b6d4",
			"lineColor":            "#8b5cf6",
			"textColor":            "#e2e8f0",
			"nodeBorder":           "#6366f1",
			"mainBkg":              "rgba(99,102,241,0.18)",
			"clusterBkg":           "rgba(99,102,241,0.08)",
			"clusterBorder":        "#6366f1",
			"titleColor":           "#c4b5fd",
			"edgeLabelBackground":  "rgba(15,12,41,0.7)",
			"actorBkg":             "rgba(99,102,241,0.18)",
			"actorBorder":          "#6366f1",
			"actorTextColor":       "#e2e8f0",
			"signalColor":          "#8b5cf6",
			"signalTextColor":      "#e2e8f0",
			"noteBkgColor":         "rgba(99,102,241,0.12)",
			"noteBorderColor":      "#6366f1",
			"noteTextColor":        "#e2e8f0",
			"pie1":                 "#6366f1",
			"pie2":                 "#ec4899",
			"pie3":                 "#06b6d4",
			"pie4":                 "#a78bfa",
			"pie5":                 "#f472b6",
			"pie6":                 "#22d3ee",
			"pieStrokeColor":       "rgba(255,255,255,0.1)",
			"pieSectionTextColor":  "#ffffff",
			"pieTitleTextColor":    "#c4b5fd",
			"pieLegendTextColor":   "#e2e8f0",
			"xyChart": map[string]interface{}{
				"backgroundColor":  "transparent",
				"titleColor":       "#c4b5fd",
				"xAxisTitleColor":  "#e2e8f0",
				"yAxisTitleColor":  "#e2e8f0",
				"xAxisLabelColor":  "#a1a1aa",
				"yAxisLabelColor":  "#a1a1aa",
				"xAxisLineColor":   "rgba(255,255,255,0.1)",
				"yAxisLineColor":   "rgba(255,255,255,0.1)",
				"plotColorPalette": "#6366f1,#ec4899,#06b6d4,#a78bfa,#f472b6,#22d3ee",
			},
		},
	}
}

func torrentPalette() Palette {
	return Palette{
		ThemeID:      theme.Torrent,
		Dark:         true,
		MermaidTheme: "base",
		FontFamily:   fontStack,
		Text:         "#e2e8f0",
		Primary:      "#fbbf24",
		Secondary:    "#8b5cf6",
		Tertiary:     "#ec4899",
		Line:         "#a78bfa",
		Background:   "#07060d",
		Variables: map[string]interface{}{
			"background":           "transparent",
			"fontFamily":           fontStack,
			"fontSize":             "14px",
			"primaryColor":         "rgba(251,191,36,0.18)",
			"primaryTextColor":     "#ffffff",
			"primaryBorderColor":   "#fbbf24",
			"secondaryColor":       "rgba(139,92,246,0.18)",
			"secondaryTextColor":   "#e2e8f0",
			"secondaryBorderColor": "#8b5cf6",
			"tertiaryColor":        "rgba(236,72,153,0.14)",
			"tertiaryTextColor":    "#e2e8f0",
			"tertiaryBorderColor":  "#ec4899",
			"lineColor":            "#a78bfa",
			"textColor":            "#e2e8f0",
			"nodeBorder":           "#fbbf24",
			"mainBkg":              "rgba(251,191,36,0.15)",
			"clusterBkg":           "rgba(139,92,246,0.08)",
			"clusterBorder":        "#8b5cf6",
			"titleColor":           "#fbbf24",
			"edgeLabelBackground":  "rgba(7,6,13,0.7)",
			"actorBkg":             "rgba(251,191,36,0.15)",
			"actorBorder":          "#fbbf24",
			"actorTextColor":       "#ffffff",
			"signalColor":          "#a78bfa",
			"signalTextColor":      "#e2e8f0",
			"labelBoxBkgColor":     "rgba(139,92,246,0.15)",
			"labelBoxBorderColor":  "#8b5cf6",
			"labelTextColor":       "#e2e8f0",
			"loopTextColor":        "#fbbf24",
			"noteBkgColor":         "rgba(251,191,36,0.12)",
			"noteBorderColor":      "#fbbf24",
			"noteTextColor":        "#ffffff",
			"pie1":                 "#fbbf24",
			"pie2":                 "#8b5cf6",
			"pie3":                 "#ec4899",
			"pie4":                 "#06b6d4",
			"pie5":                 "#22c55e",
			"pie6":                 "#ef4444",
			"pie7":                 "#a78bfa",
			"pie8":                 "#f472b6",
			"pieStrokeColor":       "rgba(255,255,255,0.15)",
			"pieSectionTextColor":  "#ffffff",
			"pieTitleTextColor":    "#fbbf24",
			"pieLegendTextColor":   "#e2e8f0",
			"xyChart": map[string]interface{}{
				"backgroundColor":  "transparent",
				"titleColor":       "#fbbf24",
				"xAxisTitleColor":  "#e2e8f0",
				"yAxisTitleColor":  "#e2e8f0",
				"xAxisLabelColor":  "#a1a1aa",
				"yAxisLabelColor":  "#a1a1aa",
				"xAxisLineColor":   "rgba(255,255,255,0.15)",
				"yAxisLineColor":   "rgba(255,255,255,0.15)",
				"plotColorPalette": "#fbbf24,#8b5cf6,#ec4899,#06b6d4,#22c55e,#ef4444",
			},
		},
	}
}

// PaletteFor returns the diagram palette for a plugin. Plain, cool and torrent
// have bespoke palettes; other plugins borrow plain's (light) or cool's
// (dark) and swap in their own text and background colours.
func PaletteFor(p *theme.Plugin) Palette {
	if p == nil {
		return plainPalette()
	}
	switch p.ID {
	case theme.Plain:
		return plainPalette()
	case theme.Cool:
		return coolPalette()
	case theme.Torrent:
		return torrentPalette()
	}
	pal := plainPalette()
	if p.Appearance == theme.Dark {
		pal = coolPalette()
	}
	pal.ThemeID = p.ID
	if p.Colors.Foreground != "" {
		pal.Text = p.Colors.Foreground
	}
	if p.Colors.Background != "" {
		pal.Background = p.Colors.Background
	}
	if p.Colors.Accent != "" {
		pal.Primary = p.Colors.Accent
	}
	return pal
}
