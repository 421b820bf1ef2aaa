package override

import (
	"regexp"
	"strings"
	"sync"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

var directiveRe = regexp.MustCompile(`/\*\s*@theme-base:\s*([\w-]+)\s*\*/`)

// Directive returns the base-theme comment for base, or "" for the default
// base, which needs none.
func Directive(base string) string {
	base = theme.NormalizeID(base)
	if base == "" || base == theme.DefaultPluginID {
		return ""
	}
	return "/* @theme-base: " + base + " */"
}

// DetectBase returns the base theme named by the first @theme-base
// directive in css.
func DetectBase(css string) (string, bool) {
	m := directiveRe.FindStringSubmatch(css)
	if m == nil {
		return "", false
	}
	return theme.NormalizeID(m[1]), true
}

// Extraction is the per-element view of an override stylesheet.
type Extraction struct {
	Base string
	// Properties maps every catalog id to its property block; elements
	// without a rule map to "".
	Properties map[string]string
}

// Extract reads the per-element property blocks out of css. The base is
// explicitBase when set, else the detected directive, else the default
// theme. Only the first rule matching each element's selector is used.
func Extract(css, explicitBase string) Extraction {
	base := theme.NormalizeID(explicitBase)
	if base == "" {
		if detected, ok := DetectBase(css); ok {
			base = detected
		} else {
			base = theme.DefaultPluginID
		}
	}

	props := make(map[string]string)
	for _, rule := range rulePatterns(base) {
		m := rule.re.FindStringSubmatch(css)
		if m == nil {
			props[rule.id] = ""
			continue
		}
		props[rule.id] = normalizeBlock(m[1])
	}
	return Extraction{Base: base, Properties: props}
}

type rulePattern struct {
	id string
	re *regexp.Regexp
}

// compiledRules holds the catalog rule patterns per base theme id.
var compiledRules sync.Map

// rulePatterns returns the catalog's rule patterns scoped to base, compiling
// them on first use.
func rulePatterns(base string) []rulePattern {
	if v, ok := compiledRules.Load(base); ok {
		return v.([]rulePattern)
	}
	catalog := Catalog()
	rules := make([]rulePattern, 0, len(catalog))
	for _, d := range catalog {
		rules = append(rules, rulePattern{
			id: d.ID,
			re: regexp.MustCompile(`(?s)` + regexp.QuoteMeta(d.SelectorFor(base)) + `\s*\{([^}]*)\}`),
		})
	}
	v, _ := compiledRules.LoadOrStore(base, rules)
	return v.([]rulePattern)
}

// normalizeBlock trims each line and drops blank ones.
func normalizeBlock(block string) string {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// Generate builds an override stylesheet from per-element property blocks.
// Rules come out in catalog order; blank blocks are skipped so they never
// mask the base theme. Unknown ids are ignored.
func Generate(props map[string]string, base string) string {
	base = theme.NormalizeID(base)
	if base == "" {
		base = theme.DefaultPluginID
	}

	var rules []string
	for _, d := range Catalog() {
		content := props[d.ID]
		if strings.TrimSpace(content) == "" {
			continue
		}
		rules = append(rules, d.SelectorFor(base)+" {\n"+content+"\n}")
	}

	var parts []string
	if dir := Directive(base); dir != "" {
		parts = append(parts, dir+"\n")
	}
	if core := strings.Join(rules, "\n\n"); core != "" {
		parts = append(parts, core)
	}
	return strings.Join(parts, "\n\n")
}

// FromPlugin seeds per-element blocks from a theme's own stylesheet, for
// starting a custom theme on top of it.
func FromPlugin(p *theme.Plugin) Extraction {
	if p == nil {
		return Extraction{Base: theme.DefaultPluginID, Properties: Defaults()}
	}
	return Extract(p.CSS(), p.ID)
}
