package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/thumbnail"
)

// Archive entry names.
const (
	IndexName = "index.html"
	AssetsDir = "assets/"
	ThumbsDir = AssetsDir + "thumbs/"
)

// ArchiveOptions control what goes into an export archive besides the page.
type ArchiveOptions struct {
	// Thumbnails adds a PNG preview per slide under assets/thumbs/.
	Thumbnails     bool
	ThumbnailWidth int
	Fonts          thumbnail.Fonts
	Logger         *log.Logger
}

// ThumbName is the archive path of slide i's thumbnail.
func ThumbName(i int) string {
	return fmt.Sprintf("%s%03d.png", ThumbsDir, i+1)
}

// Archive writes p as a zip holding index.html, the project assets and,
// optionally, slide thumbnails.
func Archive(ctx context.Context, w io.Writer, svc *render.Service, p *project.Project, opts ArchiveOptions) error {
	l := opts.Logger
	if l == nil {
		l = logger.NewStyledLogger("Export")
	}

	html, _, err := Document(ctx, svc, p)
	if err != nil {
		return err
	}
	l.Info("rendered presentation", "project", p.Name, "slides", len(p.Slides))

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, IndexName, []byte(html)); err != nil {
		return err
	}
	if _, err := zw.Create(AssetsDir); err != nil {
		return fmt.Errorf("export assets: %w", err)
	}

	names := make([]string, 0, len(p.Assets))
	for name := range p.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeEntry(zw, AssetsDir+strings.TrimPrefix(name, "/"), p.Assets[name]); err != nil {
			return err
		}
	}

	if opts.Thumbnails {
		if err := writeThumbnails(ctx, zw, svc, p, opts); err != nil {
			return err
		}
		l.Info("added thumbnails", "count", len(p.Slides))
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish export archive: %w", err)
	}
	return nil
}

func writeThumbnails(ctx context.Context, zw *zip.Writer, svc *render.Service, p *project.Project, opts ArchiveOptions) error {
	pluginID, css := project.ResolveTheme(p)
	var overrideCSS string
	if css != nil {
		overrideCSS = *css
	}
	plugin, err := svc.EffectiveBase(pluginID, overrideCSS)
	if err != nil {
		return fmt.Errorf("thumbnail theme: %w", err)
	}

	tOpts := thumbnail.Options{
		Width:   opts.ThumbnailWidth,
		Canvas:  p.SlideSize.Canvas(),
		Palette: thumbnail.PaletteFor(plugin),
		Fonts:   opts.Fonts,
		Images:  thumbnail.AssetImages(p.Assets),
	}
	for i, s := range p.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := thumbnail.Render([]byte(s.MarkdownContent), tOpts)
		if err != nil {
			return fmt.Errorf("thumbnail for slide %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := thumbnail.EncodePNG(&buf, img); err != nil {
			return err
		}
		if err := writeEntry(zw, ThumbName(i), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	return nil
}
