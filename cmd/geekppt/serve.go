package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the render HTTP API and live preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(a.svc, a.registry,
			server.WithGatherer(a.prom),
			server.WithLogger(logger.NewStyledLogger("HTTP")),
		)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default server.addr)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
