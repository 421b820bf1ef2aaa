package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode"

	"github.com/golang/freetype"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/huatuo-dr/geek-ppt/internal/diagram"
)

const (
	listIndentStep  = 32
	listMarkerWidth = 28
	listMarkerGap   = 8
)

// ImageSource resolves an image destination to a decoded image.
type ImageSource func(dest string) (image.Image, error)

type layout struct {
	c        *canvas
	baseSize float64
	images   ImageSource
}

type textToken struct {
	text      string
	font      *Face
	size      float64
	color     color.Color
	underline bool
	strike    bool
	newline   bool
	image     image.Image
}

type styledWord struct {
	text      string
	font      *Face
	size      float64
	color     color.Color
	underline bool
	strike    bool
}

type lineMetric struct {
	baseline int
	height   int
}

func (l *layout) inlineTokens(node ast.Node, md []byte, f *Face, size float64, col color.Color, out *[]textToken) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			parts := strings.Split(string(n.Segment.Value(md)), "\n")
			for i, part := range parts {
				if part != "" {
					*out = append(*out, textToken{text: part, font: f, size: size, color: col})
				}
				if i < len(parts)-1 {
					*out = append(*out, textToken{newline: true})
				}
			}
			if n.SoftLineBreak() || n.HardLineBreak() {
				*out = append(*out, textToken{newline: true})
			}
		case *ast.String:
			*out = append(*out, textToken{text: string(n.Value), font: f, size: size, color: col})
		case *ast.Link:
			before := len(*out)
			l.inlineTokens(n, md, f, size, l.c.pal.Link, out)
			for i := before; i < len(*out); i++ {
				(*out)[i].color = l.c.pal.Link
				(*out)[i].underline = true
			}
		case *ast.AutoLink:
			label := string(n.Label(md))
			if label == "" {
				label = string(n.URL(md))
			}
			*out = append(*out, textToken{text: label, font: f, size: size, color: l.c.pal.Link, underline: true})
		case *ast.Image:
			dest := strings.TrimSpace(string(n.Destination))
			if img := l.loadImage(dest); img != nil {
				*out = append(*out, textToken{image: img})
				continue
			}
			alt := strings.TrimSpace(string(n.Text(md)))
			altColor := l.c.pal.FG
			if alt == "" {
				alt, altColor = dest, l.c.pal.Warning
			}
			if alt != "" {
				*out = append(*out, textToken{text: "[" + alt + "]", font: f, size: size, color: altColor})
			}
		case *ast.Emphasis:
			next := f
			if n.Level >= 2 {
				next = l.c.fonts.Bold
			}
			l.inlineTokens(n, md, next, size, col, out)
		case *extast.Strikethrough:
			before := len(*out)
			l.inlineTokens(n, md, f, size, col, out)
			for i := before; i < len(*out); i++ {
				(*out)[i].strike = true
			}
		case *ast.CodeSpan:
			if txt := string(n.Text(md)); txt != "" {
				*out = append(*out, textToken{text: txt, font: l.c.fonts.Mono, size: size * 0.95, color: col})
			}
		case *ast.RawHTML:
		case *extast.TaskCheckBox:
			box := "[ ] "
			if n.IsChecked {
				box = "[x] "
			}
			*out = append(*out, textToken{text: box, font: l.c.fonts.Mono, size: size, color: col})
		case *ast.Paragraph:
			l.inlineTokens(n, md, f, size, col, out)
			if child.NextSibling() != nil {
				*out = append(*out, textToken{newline: true})
			}
		default:
			if child.HasChildren() {
				l.inlineTokens(child, md, f, size, col, out)
			}
		}
	}
}

func (l *layout) loadImage(dest string) image.Image {
	if l.images == nil || dest == "" {
		return nil
	}
	img, err := l.images(dest)
	if err != nil {
		return nil
	}
	return img
}

func (c *canvas) drawTokens(tokens []textToken, left, right int) []lineMetric {
	if len(tokens) == 0 {
		return nil
	}
	maxWidth := float64(right - left)
	var (
		line        []styledWord
		lineWidth   float64
		lineMaxSize float64
		metrics     []lineMetric
	)

	flush := func(force bool) {
		size := lineMaxSize
		if size == 0 {
			size = c.ptSize
		}
		if len(line) == 0 {
			if force {
				c.cursorY += int(size * 1.4)
			}
			return
		}
		baseline := c.cursorY + int(size)
		x := left
		for _, w := range line {
			c.setFace(w.font, w.color, w.size)
			_, _ = c.dc.DrawString(w.text, freetype.Pt(x, baseline))
			width := int(measureWidth(w.font, w.size, w.text))
			if w.underline && width > 0 {
				y := baseline + max(int(w.size*0.12), 1)
				c.fill(image.Rect(x, y, x+width, y+1), w.color)
			}
			if w.strike && width > 0 {
				y := baseline - int(w.size*0.35)
				c.fill(image.Rect(x, y, x+width, y+1), w.color)
			}
			x += width
		}
		lineHeight := int(size * 1.4)
		metrics = append(metrics, lineMetric{baseline: baseline, height: lineHeight})
		c.cursorY += lineHeight
		line = line[:0]
		lineWidth = 0
		lineMaxSize = 0
	}

	for _, tok := range tokens {
		if tok.newline {
			flush(true)
			continue
		}
		if tok.image != nil {
			flush(false)
			img := tok.image
			if maxW := int(maxWidth); maxW > 0 && img.Bounds().Dx() > maxW {
				img = scaleToWidth(img, maxW)
			}
			b := img.Bounds()
			x := left
			if int(maxWidth) > b.Dx() {
				x += (int(maxWidth) - b.Dx()) / 2
			}
			rect := image.Rect(x, c.cursorY, x+b.Dx(), c.cursorY+b.Dy())
			c.paste(rect, img)
			metrics = append(metrics, lineMetric{baseline: min(c.cursorY+int(c.ptSize), rect.Max.Y), height: b.Dy()})
			c.cursorY += b.Dy() + int(c.ptSize*0.6)
			continue
		}
		f := tok.font
		if f == nil {
			f = c.fonts.Regular
		}
		for _, seg := range splitPreservingSpaces(tok.text) {
			segWidth := measureWidth(f, tok.size, seg)
			w := styledWord{text: seg, font: f, size: tok.size, color: tok.color, underline: tok.underline, strike: tok.strike}
			if unicode.IsSpace([]rune(seg)[0]) {
				if len(line) == 0 {
					continue
				}
				line = append(line, w)
				lineWidth += segWidth
				continue
			}
			if lineWidth+segWidth > maxWidth && len(line) > 0 {
				flush(false)
			}
			line = append(line, w)
			if tok.size > lineMaxSize {
				lineMaxSize = tok.size
			}
			lineWidth += segWidth
		}
	}
	flush(false)
	return metrics
}

func (l *layout) markerPositions(level int) (markerLeft, markerRight, contentLeft int) {
	markerLeft = l.c.margin + level*listIndentStep
	markerRight = markerLeft + listMarkerWidth
	contentLeft = markerRight + listMarkerGap
	return
}

func (l *layout) drawListMarker(marker string, baseline, markerLeft, markerRight int) {
	f := l.c.fonts.Regular
	l.c.setFace(f, l.c.pal.FG, l.baseSize)
	x := markerRight - int(measureWidth(f, l.baseSize, marker))
	if x < markerLeft {
		x = markerLeft
	}
	_, _ = l.c.dc.DrawString(marker, freetype.Pt(x, baseline))
}

func (l *layout) renderList(list *ast.List, md []byte, level int) {
	markerLeft, markerRight, contentLeft := l.markerPositions(level)
	start := list.Start
	if !list.IsOrdered() || start == 0 {
		start = 1
	}
	index := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "•"
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d%c", start+index, list.Marker)
		}
		l.renderListItem(li, md, level, marker, markerLeft, markerRight, contentLeft)
		if item.NextSibling() != nil {
			l.c.addVSpace(int(l.baseSize * 0.6))
		}
		index++
	}
	l.c.addVSpace(int(l.baseSize * 0.7))
}

func (l *layout) renderListItem(li *ast.ListItem, md []byte, level int, marker string, markerLeft, markerRight, contentLeft int) {
	startY := l.c.cursorY
	right := l.c.w - l.c.margin
	blockSpacing := int(l.baseSize * 0.5)
	markerDrawn := false
	ensureMarker := func(baseline int) {
		if !markerDrawn {
			l.drawListMarker(marker, baseline, markerLeft, markerRight)
			markerDrawn = true
		}
	}

	for child := li.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			var tokens []textToken
			l.inlineTokens(n, md, l.c.fonts.Regular, l.baseSize, l.c.pal.FG, &tokens)
			metrics := l.c.drawTokens(tokens, contentLeft, right)
			if len(metrics) > 0 {
				ensureMarker(metrics[0].baseline)
			}
		case *ast.List:
			ensureMarker(startY + int(l.baseSize))
			l.c.addVSpace(int(l.baseSize * 0.3))
			l.renderList(n, md, level+1)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			ensureMarker(startY + int(l.baseSize))
			l.c.addVSpace(int(l.baseSize * 0.2))
			l.c.drawCodeBlock(strings.TrimRight(string(blockText(n, md)), "\n"), contentLeft, right, l.baseSize*0.95)
		case *ast.Blockquote:
			ensureMarker(startY + int(l.baseSize))
			l.renderQuote(n, md, contentLeft)
		}
		if child.NextSibling() != nil {
			l.c.addVSpace(blockSpacing)
		}
	}
	ensureMarker(startY + int(l.baseSize))
}

func (l *layout) renderQuote(n ast.Node, md []byte, left int) {
	start := l.c.cursorY
	var tokens []textToken
	l.inlineTokens(n, md, l.c.fonts.Regular, l.baseSize, l.c.pal.FG, &tokens)
	if len(tokens) == 0 {
		return
	}
	l.c.addVSpace(2)
	_ = l.c.drawTokens(tokens, left+14, l.c.w-l.c.margin)
	l.c.addVSpace(6)
	l.c.drawQuoteBar(left, start+2, l.c.cursorY-start-2)
}

func (l *layout) tableRow(row ast.Node, md []byte, header bool) [][]textToken {
	f := l.c.fonts.Regular
	if header {
		f = l.c.fonts.Bold
	}
	var cells [][]textToken
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if tc, ok := cell.(*extast.TableCell); ok {
			var tokens []textToken
			l.inlineTokens(tc, md, f, l.baseSize, l.c.pal.FG, &tokens)
			cells = append(cells, tokens)
		}
	}
	return cells
}

func (l *layout) renderTable(tbl *extast.Table, md []byte) {
	var rows [][][]textToken
	for node := tbl.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *extast.TableHeader:
			rows = append(rows, l.tableRow(n, md, true))
		case *extast.TableRow:
			rows = append(rows, l.tableRow(n, md, false))
		}
	}
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return
	}

	const border = 1
	cellPadding := max(int(l.baseSize*0.6), 8)
	available := max(l.c.w-2*l.c.margin, colCount*40+border*(colCount+1))
	colWidth := max((available-border*(colCount+1))/colCount, 60)
	tableWidth := min(colCount*colWidth+border*(colCount+1), available)
	tableLeft := l.c.margin
	tableRight := tableLeft + tableWidth

	l.c.addVSpace(int(l.baseSize * 0.3))
	tableTop := l.c.cursorY
	l.c.fill(image.Rect(tableLeft, tableTop, tableRight, tableTop+border), l.c.pal.HRule)
	y := tableTop + border

	minHeight := int(l.baseSize * 1.1)
	for _, row := range rows {
		rowHeight := minHeight
		for col := 0; col < colCount; col++ {
			cellLeft := tableLeft + border + col*(colWidth+border)
			contentLeft := cellLeft + cellPadding
			contentRight := cellLeft + colWidth - cellPadding
			if contentRight <= contentLeft {
				contentRight = cellLeft + colWidth - 2
			}
			var tokens []textToken
			if col < len(row) {
				tokens = row[col]
			}
			l.c.cursorY = y + cellPadding
			_ = l.c.drawTokens(tokens, contentLeft, contentRight)
			rowHeight = max(rowHeight, l.c.cursorY-(y+cellPadding))
		}
		rowBottom := y + rowHeight + 2*cellPadding
		l.c.fill(image.Rect(tableLeft, rowBottom, tableRight, rowBottom+border), l.c.pal.HRule)
		y = rowBottom + border
	}

	tableBottom := y - border
	for col := 0; col <= colCount; col++ {
		x := tableLeft + col*(colWidth+border)
		l.c.fill(image.Rect(x, tableTop, x+border, tableBottom+border), l.c.pal.HRule)
	}
	l.c.cursorY = tableBottom + int(l.baseSize*0.7)
}

func (l *layout) renderUnsupported(node ast.Node) {
	msg := "Unsupported: " + node.Kind().String()
	tokens := []textToken{{text: msg, font: l.c.fonts.Regular, size: l.baseSize * 0.9, color: l.c.pal.Warning}}
	_ = l.c.drawTokens(tokens, l.c.margin, l.c.w-l.c.margin)
	l.c.addVSpace(int(l.baseSize * 0.6))
}

func headingSize(base float64, level int) float64 {
	switch level {
	case 1:
		return base * 1.9
	case 2:
		return base * 1.6
	case 3:
		return base * 1.4
	case 4:
		return base * 1.25
	default:
		return base * 1.15
	}
}

func blockText(n ast.Node, md []byte) []byte {
	var b []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b = append(b, seg.Value(md)...)
	}
	return b
}

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (l *layout) render(md []byte) error {
	doc := mdParser.Parser().Parse(text.NewReader(md))
	left, right := l.c.margin, l.c.w-l.c.margin
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if l.c.full() {
			return ast.WalkStop, nil
		}
		switch nd := n.(type) {
		case *ast.Document:
			return ast.WalkContinue, nil
		case *ast.Heading:
			size := headingSize(l.baseSize, nd.Level)
			f := l.c.fonts.Regular
			if nd.Level <= 3 {
				f = l.c.fonts.Bold
			}
			var tokens []textToken
			l.inlineTokens(n, md, f, size, l.c.pal.Heading, &tokens)
			l.c.addVSpace(int(l.baseSize * 0.75))
			_ = l.c.drawTokens(tokens, left, right)
			l.c.addVSpace(int(l.baseSize * 0.5))
		case *ast.Paragraph:
			var tokens []textToken
			l.inlineTokens(n, md, l.c.fonts.Regular, l.baseSize, l.c.pal.FG, &tokens)
			if len(tokens) > 0 {
				_ = l.c.drawTokens(tokens, left, right)
				l.c.addVSpace(int(l.baseSize * 0.9))
			}
		case *ast.List:
			l.renderList(nd, md, 0)
		case *extast.Table:
			l.renderTable(nd, md)
		case *ast.FencedCodeBlock:
			l.c.addVSpace(4)
			switch lang := string(nd.Language(md)); lang {
			case diagram.Mermaid, diagram.D2:
				l.c.drawLabelBlock(lang+" diagram", left, right, l.baseSize)
			default:
				l.c.drawCodeBlock(strings.TrimRight(string(blockText(nd, md)), "\n"), left, right, l.baseSize*0.95)
			}
		case *ast.CodeBlock:
			l.c.addVSpace(4)
			l.c.drawCodeBlock(strings.TrimRight(string(blockText(nd, md)), "\n"), left, right, l.baseSize*0.95)
		case *ast.Blockquote:
			l.renderQuote(nd, md, left)
		case *ast.ThematicBreak:
			l.c.drawHRule()
		case *ast.HTMLBlock:
		default:
			if n.Type() == ast.TypeBlock {
				l.renderUnsupported(n)
			}
		}
		return ast.WalkSkipChildren, nil
	})
}
