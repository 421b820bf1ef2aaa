package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceRe       = regexp.MustCompile("(?s)```.*?```")
	placeholderRe = regexp.MustCompile(`__TORRENT_CODE_(\d+)__`)
	blankLinesRe  = regexp.MustCompile(`\n(?:\s*\n)+`)
	orderedRe     = regexp.MustCompile(`^\d+\.\s`)
	ruleRe        = regexp.MustCompile(`^[-*_]{3,}\s*$`)
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	strikeRe = regexp.MustCompile(`~~(.+?)~~`)
	codeRe   = regexp.MustCompile("`(.+?)`")
	linkRe   = regexp.MustCompile(`\[(.+?)\]\((.+?)\)`)
)

// MergeLines rewrites markdown so that consecutive lines not separated by a
// blank line render as one visual row. Each multi-line group without block
// syntax becomes a <div class="torrent-line"> of <span>s; everything else is
// left untouched. Fenced code is never inspected.
func MergeLines(markdown string) string {
	var fences []string
	safe := fenceRe.ReplaceAllStringFunc(markdown, func(m string) string {
		idx := len(fences)
		fences = append(fences, m)
		return fmt.Sprintf("\n\n__TORRENT_CODE_%d__\n\n", idx)
	})

	groups := blankLinesRe.Split(safe, -1)
	for i, group := range groups {
		groups[i] = mergeGroup(group)
	}
	merged := strings.Join(groups, "\n\n")

	return placeholderRe.ReplaceAllStringFunc(merged, func(m string) string {
		idx, err := strconv.Atoi(placeholderRe.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(fences) {
			return ""
		}
		return fences[idx]
	})
}

func mergeGroup(group string) string {
	var lines []string
	for _, l := range strings.Split(group, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) <= 1 {
		return group
	}
	for _, l := range lines {
		if IsBlockSyntax(l) {
			return group
		}
	}

	spans := make([]string, len(lines))
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if m := headingRe.FindStringSubmatch(t); m != nil {
			spans[i] = fmt.Sprintf(`<span class="th%d">%s</span>`, len(m[1]), inline(m[2]))
			continue
		}
		spans[i] = "<span>" + inline(t) + "</span>"
	}
	return `<div class="torrent-line">` + strings.Join(spans, " ") + `</div>`
}

// IsBlockSyntax reports whether a line starts block-level markdown that must
// not be merged: fences, quotes, list items, table rows, rules or raw HTML.
// A leading "**" is bold text, not a "*" list marker.
func IsBlockSyntax(line string) bool {
	t := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(t, "```"),
		strings.HasPrefix(t, "> "),
		strings.HasPrefix(t, "- "),
		strings.HasPrefix(t, "* ") && !strings.HasPrefix(t, "**"),
		strings.HasPrefix(t, "+ "),
		orderedRe.MatchString(t),
		strings.HasPrefix(t, "| "),
		ruleRe.MatchString(t),
		strings.HasPrefix(t, "<"):
		return true
	}
	return false
}

// inline converts the lightweight inline syntax of a merged line.
func inline(text string) string {
	r := boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	r = italicRe.ReplaceAllString(r, "<em>$1</em>")
	r = strikeRe.ReplaceAllString(r, "<del>$1</del>")
	r = codeRe.ReplaceAllString(r, "<code>$1</code>")
	r = linkRe.ReplaceAllString(r, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
	return r
}
