package main

import (
	"errors"
	"fmt"
	"image/jpeg"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/thumbnail"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail [project.geekppt | slide.md]",
	Short: "Draw a slide as a PNG or JPEG thumbnail",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		plugin, _ := cmd.Flags().GetString("plugin")
		size, _ := cmd.Flags().GetString("size")
		slide, _ := cmd.Flags().GetInt("slide")
		width, _ := cmd.Flags().GetInt("width")
		margin, _ := cmd.Flags().GetInt("margin")
		pt, _ := cmd.Flags().GetFloat64("pt")

		p, err := loadProject(args)
		if err != nil {
			return err
		}
		if err := applyProjectFlags(p, plugin, size); err != nil {
			return err
		}
		if slide < 1 || slide > len(p.Slides) {
			return fmt.Errorf("slide %d out of range 1..%d", slide, len(p.Slides))
		}
		if width <= 0 {
			width = cfg.Thumbnail.Width
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pluginID, css := project.ResolveTheme(p)
		var overrideCSS string
		if css != nil {
			overrideCSS = *css
		}
		base, err := a.svc.EffectiveBase(pluginID, overrideCSS)
		if err != nil {
			return err
		}

		fonts, err := thumbnail.LoadFonts(fontConfig(pt))
		if err != nil {
			return err
		}
		img, err := thumbnail.Render([]byte(p.Slides[slide-1].MarkdownContent), thumbnail.Options{
			Width:        width,
			Canvas:       p.SlideSize.Canvas(),
			Margin:       margin,
			BaseFontSize: pt,
			Palette:      thumbnail.PaletteFor(base),
			Fonts:        fonts,
			Images:       thumbnail.AssetImages(p.Assets),
		})
		if err != nil {
			return err
		}

		w, err := createOutput(out)
		if err != nil {
			return err
		}
		defer w.Close()

		switch ext := strings.ToLower(filepath.Ext(out)); ext {
		case ".png":
			return thumbnail.EncodePNG(w, img)
		case ".jpg", ".jpeg":
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
		default:
			return errors.New("unsupported output extension: " + ext)
		}
	},
}

// fontConfig maps the thumbnail font settings to a loader config.
func fontConfig(pt float64) thumbnail.FontConfig {
	return thumbnail.FontConfig{
		RegularPath: cfg.Thumbnail.FontRegular,
		BoldPath:    cfg.Thumbnail.FontBold,
		MonoPath:    cfg.Thumbnail.FontMono,
		SizeBase:    pt,
	}
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	f := thumbnailCmd.Flags()
	f.StringP("out", "o", "thumbnail.png", "Output image file (.png or .jpg)")
	f.StringP("plugin", "p", "", "Theme plugin or custom theme id")
	f.String("size", "", "Slide size preset: 16:9|4:3|21:9|9:16|A4")
	f.Int("slide", 1, "Slide number to draw")
	f.Int("width", 0, "Output width in pixels (default thumbnail.width)")
	f.Int("margin", thumbnail.DefaultMargin, "Slide margin in canvas pixels")
	f.Float64("pt", thumbnail.DefaultFontSize, "Base font size in points")
	f.String("font", "", "Path to TTF for regular text (default Go Regular)")
	f.String("fontbold", "", "Path to TTF for bold text (default Go Bold)")
	f.String("fontmono", "", "Path to TTF for code (default Go Mono)")
	_ = v.BindPFlag("thumbnail.font_regular", f.Lookup("font"))
	_ = v.BindPFlag("thumbnail.font_bold", f.Lookup("fontbold"))
	_ = v.BindPFlag("thumbnail.font_mono", f.Lookup("fontmono"))
}
