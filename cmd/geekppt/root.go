package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/config"
	"github.com/huatuo-dr/geek-ppt/internal/logger"
)

var (
	v          = config.New()
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "geekppt",
	Short: "Render markdown slides with swappable themes",
	Long: `geekppt renders markdown slides to themed HTML, exports standalone
presentations, draws slide thumbnails and serves a live preview API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if err := logger.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./geekppt.yaml if present)")
	flags.String("log-level", "", "Log level: debug|info|warn|error")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.file", flags.Lookup("log-file"))
}
