package markdown

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertBasics(t *testing.T) {
	p := New()
	out, err := p.Convert("# Hello\n\nWorld")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n<p>World</p>\n", out)
}

func TestConvertGFM(t *testing.T) {
	p := New()
	md := "~~gone~~\n\n| a | b |\n| - | - |\n| 1 | 2 |\n\n- [x] done\n- [ ] todo\n"
	out, err := p.Convert(md)
	require.NoError(t, err)
	assert.Contains(t, out, "<del>gone</del>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
	assert.Contains(t, out, `type="checkbox"`)
}

func TestLinksOpenInNewTab(t *testing.T) {
	p := New()
	out, err := p.Convert("[site](https://example.com) and https://auto.example.org")
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>`)
	assert.Contains(t, out, `href="https://auto.example.org" target="_blank" rel="noopener noreferrer"`)
}

func TestRawHTMLPassthrough(t *testing.T) {
	p := New()
	placeholder := `<div class="diagram-placeholder" data-diagram-lang="mermaid" data-diagram-idx="0"></div>`
	out, err := p.Convert("before\n\n" + placeholder + "\n\nafter")
	require.NoError(t, err)
	assert.Contains(t, out, placeholder)
	assert.Contains(t, out, "<p>before</p>")
	assert.Contains(t, out, "<p>after</p>")
}

func TestCodeBlockHighlighting(t *testing.T) {
	p := New()
	out, err := p.Convert("```go\nfunc main() {}\n```")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<pre class="shiki shiki-themes `))
	assert.Contains(t, out, "--shiki-light-bg:")
	assert.Contains(t, out, "--shiki-dark-bg:")
	assert.Contains(t, out, `<span class="line">`)
	assert.Contains(t, out, "--shiki-dark:")
	assert.Contains(t, out, ">func</span>")
}

func TestCodeBlockUnknownLanguageIsEscaped(t *testing.T) {
	p := New()
	out, err := p.Convert("```nosuchlang\n<b>&</b>\n```")
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;&amp;&lt;/b&gt;")
	assert.NotContains(t, out, "<b>&</b>")
}

func TestCodeBlockLinesSeparated(t *testing.T) {
	h := NewHighlighter(DefaultLightStyle, DefaultDarkStyle)
	out := h.Highlight("a\nb\n", "text")
	assert.Equal(t, 2, strings.Count(out, `<span class="line">`))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConvertDeterministicAndConcurrent(t *testing.T) {
	p := New()
	md := "# T\n\n```js\nconst x = 1;\n```\n\n> quote\n"
	want, err := p.Convert(md)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Convert(md)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestStyleVars(t *testing.T) {
	assert.Equal(t, "a:1;c:3", styleVars("a", "1", "b", "", "c", "3"))
	assert.Equal(t, "", styleVars())
}
