package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [file.md]",
	Short: "Render one markdown slide to themed HTML",
	Long: `Renders a markdown slide (or stdin) with a theme plugin and an optional
override stylesheet. The default output is the JSON render result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plugin, _ := cmd.Flags().GetString("plugin")
		overridePath, _ := cmd.Flags().GetString("override")
		sizeLabel, _ := cmd.Flags().GetString("size")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		var in string
		if len(args) == 1 {
			in = args[0]
		}
		md, err := readInput(in)
		if err != nil {
			return err
		}

		size := project.DefaultSlideSize()
		if sizeLabel != "" {
			if size, err = project.PresetByLabel(sizeLabel); err != nil {
				return err
			}
		}
		req := render.NewRequest(string(md), pluginOr(plugin), size.Canvas(), 0)
		if overridePath != "" {
			css, err := readInput(overridePath)
			if err != nil {
				return err
			}
			req = req.WithOverride(string(css))
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.svc.Render(cmd.Context(), req)

		w, err := createOutput(out)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := writeResult(w, res, format); err != nil {
			return err
		}
		if !res.OK() {
			return errors.New(res.Error)
		}
		return nil
	},
}

func writeResult(w io.Writer, res render.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	case "html":
		_, err := fmt.Fprintln(w, res.HTML)
		return err
	case "css":
		_, err := fmt.Fprintln(w, res.CSS)
		return err
	default:
		return fmt.Errorf("unknown format %q (json|html|css)", format)
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("plugin", "p", "", "Theme plugin id (default from render.default_plugin)")
	renderCmd.Flags().String("override", "", "Override stylesheet file")
	renderCmd.Flags().String("size", "", "Slide size preset: 16:9|4:3|21:9|9:16|A4")
	renderCmd.Flags().StringP("format", "f", "json", "Output: json|html|css")
	renderCmd.Flags().StringP("out", "o", "-", "Output file")
}
