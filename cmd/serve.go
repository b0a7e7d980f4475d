package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	cfgpkg "github.com/KaramelBytes/csvstats/internal/config"
	"github.com/KaramelBytes/csvstats/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the describe pipeline over HTTP",
	Long: `serve exposes POST /v1/describe, which accepts a CSV body or a multipart
upload in field "file" and answers with the JSON report, and GET /healthz.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if c == nil {
			c = cfgpkg.Default()
		}
		addr := c.ServerAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		delim, err := cfgpkg.ParseDelimiter(c.Delimiter)
		if err != nil {
			return err
		}
		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := server.New(server.Options{
			Addr:           addr,
			MaxUploadBytes: int64(c.MaxUploadMB) << 20,
			Analysis:       analysis.Options{MaxGroups: c.MaxGroups, MaxValues: c.MaxValues, Workers: resolveWorkers(c.Workers)},
			Delimiter:      delim,
			Logger:         logger,
		})
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server_addr)")
}
