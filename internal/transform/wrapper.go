// Package transform holds the structural, per-theme rewrites applied around
// the markdown conversion: markup wrappers and the line-merge pre-processor.
package transform

import (
	"strings"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// Wrap nests converted markup inside the container elements the plugin's
// stylesheet expects. Plugins without special layers get a single
// "<id>-slide" div.
func Wrap(pluginID, inner string) string {
	id := theme.NormalizeID(pluginID)
	var b strings.Builder
	b.Grow(len(inner) + 256)

	b.WriteString(`<div class="`)
	b.WriteString(theme.WrapperClass(id))
	b.WriteString(`">`)
	switch id {
	case theme.Cool:
		b.WriteString(`<div class="cool-scroll"><div class="cool-content">`)
		b.WriteString(inner)
		b.WriteString(`</div></div>`)
	case theme.Torrent:
		b.WriteString(`<div class="torrent-orb torrent-orb-1"></div>`)
		b.WriteString(`<div class="torrent-orb torrent-orb-2"></div>`)
		b.WriteString(`<div class="torrent-orb torrent-orb-3"></div>`)
		b.WriteString(`<div class="torrent-scroll"><div class="torrent-content">`)
		b.WriteString(inner)
		b.WriteString(`</div></div>`)
	default:
		b.WriteString(inner)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// NeedsLineMerge reports whether markdown for pluginID is run through
// MergeLines before conversion.
func NeedsLineMerge(pluginID string) bool {
	return theme.NormalizeID(pluginID) == theme.Torrent
}
