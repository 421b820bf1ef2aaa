package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		plugin string
		want   string
	}{
		{"plain", `<div class="plain-slide"><p>x</p></div>`},
		{"plain-renderer", `<div class="plain-slide"><p>x</p></div>`},
		{"academic", `<div class="academic-slide"><p>x</p></div>`},
		{"cool", `<div class="cool-slide"><div class="cool-scroll"><div class="cool-content"><p>x</p></div></div></div>`},
		{"torrent", `<div class="torrent-slide">` +
			`<div class="torrent-orb torrent-orb-1"></div>` +
			`<div class="torrent-orb torrent-orb-2"></div>` +
			`<div class="torrent-orb torrent-orb-3"></div>` +
			`<div class="torrent-scroll"><div class="torrent-content"><p>x</p></div></div></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.plugin, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.plugin, "<p>x</p>"))
		})
	}
}

func TestNeedsLineMerge(t *testing.T) {
	assert.True(t, NeedsLineMerge("torrent"))
	assert.True(t, NeedsLineMerge("torrent-renderer"))
	assert.False(t, NeedsLineMerge("plain"))
	assert.False(t, NeedsLineMerge("cool"))
}

func TestMergeLinesAdjacentLines(t *testing.T) {
	got := MergeLines("Line one\nLine two")
	assert.Equal(t, `<div class="torrent-line"><span>Line one</span> <span>Line two</span></div>`, got)
}

func TestMergeLinesBlankLineSeparatesParagraphs(t *testing.T) {
	got := MergeLines("Line one\n\nLine two")
	assert.Equal(t, "Line one\n\nLine two", got)
	assert.NotContains(t, got, "torrent-line")
}

func TestMergeLinesSingleLineUntouched(t *testing.T) {
	assert.Equal(t, "# Title", MergeLines("# Title"))
}

func TestMergeLinesHeadingsAndInline(t *testing.T) {
	md := "# Big **bold**\nthen *soft* ~~old~~ `code` [site](https://x.io)"
	got := MergeLines(md)
	assert.Equal(t,
		`<div class="torrent-line"><span class="th1">Big <strong>bold</strong></span> `+
			`<span>then <em>soft</em> <del>old</del> <code>code</code> `+
			`<a href="https://x.io" target="_blank" rel="noopener noreferrer">site</a></span></div>`,
		got)
}

func TestMergeLinesLeavesBlockGroups(t *testing.T) {
	groups := []string{
		"- one\n- two",
		"1. one\n2. two",
		"> quote\nmore",
		"| a | b |\n| - | - |",
		"text\n---",
		"<div>\nraw</div>",
		"+ plus\nline",
		"* star\nline",
	}
	for _, g := range groups {
		assert.Equal(t, g, MergeLines(g), g)
	}
}

func TestMergeLinesBoldLineIsNotAList(t *testing.T) {
	got := MergeLines("**Bold** start\nnext")
	assert.True(t, strings.HasPrefix(got, `<div class="torrent-line">`))
}

func TestMergeLinesProtectsFences(t *testing.T) {
	md := "intro\nmore\n\n```go\nfunc a() {}\n\nfunc b() {}\n```\n\nafter"
	got := MergeLines(md)
	assert.Contains(t, got, "```go\nfunc a() {}\n\nfunc b() {}\n```")
	assert.Contains(t, got, `<div class="torrent-line"><span>intro</span> <span>more</span></div>`)
	assert.NotContains(t, got, "__TORRENT_CODE_")
	assert.True(t, strings.HasSuffix(got, "after"))
}

func TestIsBlockSyntax(t *testing.T) {
	assert.True(t, IsBlockSyntax("  - item"))
	assert.True(t, IsBlockSyntax("12. item"))
	assert.True(t, IsBlockSyntax("***"))
	assert.True(t, IsBlockSyntax("___  "))
	assert.False(t, IsBlockSyntax("**bold**"))
	assert.False(t, IsBlockSyntax("# heading"))
	assert.False(t, IsBlockSyntax("plain words"))
	assert.False(t, IsBlockSyntax("-dash"))
}
