package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Work with custom theme override stylesheets",
}

var themeExtractCmd = &cobra.Command{
	Use:   "extract [file.css]",
	Short: "Print the per-element property blocks of a stylesheet as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base")
		css, err := readCSSArg(args)
		if err != nil {
			return err
		}
		ex := override.Extract(css, base)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"base": ex.Base, "properties": ex.Properties})
	},
}

var themeGenerateCmd = &cobra.Command{
	Use:   "generate [properties.json]",
	Short: "Build an override stylesheet from per-element property blocks",
	Long: `Reads a JSON object mapping element ids to property blocks and prints the
override stylesheet. With --from, blocks start from that plugin's own rules.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base")
		from, _ := cmd.Flags().GetString("from")

		props := map[string]string{}
		if from != "" {
			p, err := theme.NewBuiltinRegistry().Get(from)
			if err != nil {
				return err
			}
			ex := override.FromPlugin(p)
			props = ex.Properties
			if base == "" {
				base = ex.Base
			}
		}
		if len(args) == 1 {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			var given map[string]string
			if err := json.Unmarshal(data, &given); err != nil {
				return fmt.Errorf("parse properties: %w", err)
			}
			for id, block := range given {
				if _, err := override.Lookup(id); err != nil {
					return err
				}
				props[id] = block
			}
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), override.Generate(props, base))
		return err
	},
}

var themeDiffCmd = &cobra.Command{
	Use:   "diff <a.css> <b.css>",
	Short: "Show the line differences between two stylesheets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readInput(args[0])
		if err != nil {
			return err
		}
		b, err := readInput(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), override.Diff(string(a), string(b)))
		return err
	},
}

var themeSaveCmd = &cobra.Command{
	Use:   "save <file.css>",
	Short: "Package an override stylesheet as a " + override.FileExtension + " theme file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		out, _ := cmd.Flags().GetString("out")

		css, err := readCSSArg(args)
		if err != nil {
			return err
		}
		stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		if name == "" {
			name = stem
		}
		if out == "" {
			out = stem + override.FileExtension
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return override.WriteTheme(f, override.Theme{ThemeID: "custom-" + stem, DisplayName: name, CSS: css})
	},
}

func readCSSArg(args []string) (string, error) {
	var in string
	if len(args) == 1 {
		in = args[0]
	}
	data, err := readInput(in)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeExtractCmd, themeGenerateCmd, themeDiffCmd, themeSaveCmd)
	themeExtractCmd.Flags().String("base", "", "Base theme (default from the @theme-base directive)")
	themeGenerateCmd.Flags().String("base", "", "Base theme the override targets")
	themeGenerateCmd.Flags().String("from", "", "Seed blocks from this plugin's stylesheet")
	themeSaveCmd.Flags().String("name", "", "Display name (default file name)")
	themeSaveCmd.Flags().StringP("out", "o", "", "Output file")
}
