package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/export"
	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/thumbnail"
)

var exportCmd = &cobra.Command{
	Use:   "export [project.geekppt | slide.md...]",
	Short: "Export slides as a presentation or project file",
	Long: `Exports a project (or markdown files, one slide each) by output extension:
  .html     standalone presentation page
  .zip      presentation page plus assets, optionally with thumbnails
  .geekppt  editable project archive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		plugin, _ := cmd.Flags().GetString("plugin")
		size, _ := cmd.Flags().GetString("size")
		thumbs, _ := cmd.Flags().GetBool("thumbnails")

		p, err := loadProject(args)
		if err != nil {
			return err
		}
		if err := applyProjectFlags(p, plugin, size); err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(out))
		if ext == project.Extension {
			return project.WriteFile(out, p)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		w, err := createOutput(out)
		if err != nil {
			return err
		}
		defer w.Close()

		switch ext {
		case ".html", ".htm":
			html, _, err := export.Document(cmd.Context(), a.svc, p)
			if err != nil {
				return err
			}
			_, err = w.Write([]byte(html))
			return err
		case ".zip":
			opts := export.ArchiveOptions{
				Thumbnails:     thumbs,
				ThumbnailWidth: cfg.Thumbnail.Width,
				Logger:         logger.NewStyledLogger("Export"),
			}
			if thumbs {
				fonts, err := thumbnail.LoadFonts(fontConfig(thumbnail.DefaultFontSize))
				if err != nil {
					return err
				}
				opts.Fonts = fonts
			}
			return export.Archive(cmd.Context(), w, a.svc, p, opts)
		default:
			return fmt.Errorf("unsupported output extension %q (.html|.zip|%s)", ext, project.Extension)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "presentation.zip", "Output file")
	exportCmd.Flags().StringP("plugin", "p", "", "Theme plugin or custom theme id")
	exportCmd.Flags().String("size", "", "Slide size preset: 16:9|4:3|21:9|9:16|A4")
	exportCmd.Flags().Bool("thumbnails", false, "Add PNG slide thumbnails to a .zip export")
}
