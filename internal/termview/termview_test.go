package termview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

func TestStyleFor(t *testing.T) {
	reg := theme.NewBuiltinRegistry()
	plain, _ := reg.Lookup(theme.Plain)
	cool, _ := reg.Lookup(theme.Cool)

	assert.Equal(t, StyleNoTTY, StyleFor(nil))
	assert.Equal(t, StyleLight, StyleFor(plain))
	assert.Equal(t, StyleDark, StyleFor(cool))
}

func TestRenderKeepsText(t *testing.T) {
	out, err := RenderWithStyle("# Title\n\nSome **bold** words\n\n- item", StyleNoTTY, 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "item")
}

func TestRenderWraps(t *testing.T) {
	md := strings.Repeat("word ", 40)
	out, err := RenderWithStyle(md, StyleNoTTY, 30)
	require.NoError(t, err)
	assert.Greater(t, len(strings.Split(strings.TrimSpace(out), "\n")), 5)
}

func TestRenderUnknownStyle(t *testing.T) {
	_, err := RenderWithStyle("x", "/no/such/style.json", 40)
	assert.Error(t, err)
}

func TestDeck(t *testing.T) {
	out, err := Deck([]string{"# one", "# two"}, nil, 40)
	require.NoError(t, err)
	assert.Contains(t, out, "── 1/2 ──")
	assert.Contains(t, out, "── 2/2 ──")
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
}
