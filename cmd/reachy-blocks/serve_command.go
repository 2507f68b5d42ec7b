package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/reachy-blocks/internal/config"
	"github.com/teslashibe/reachy-blocks/internal/log"
	"github.com/teslashibe/reachy-blocks/pkg/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr, dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extension bundle and robot status over HTTP",
		Long: "Serve the built extension bundle with CORS enabled so a block coding host\n" +
			"can load it, plus read-only status endpoints under /api.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(addr) == "" {
				addr = cfg.Server.Addr
			}
			if strings.TrimSpace(dir) == "" {
				dir = cfg.Server.StaticDir
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				log.Warn("extension bundle directory not found, serving API only", "dir", dir)
				dir = ""
			}

			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			ext, err := ctx.extension()
			if err != nil {
				return err
			}

			srv := web.NewServer(ext, client, web.Config{StaticDir: dir, Logger: log.L()})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(addr)
			}()

			log.Info("serving extension", "addr", addr, "daemon", client.BaseURL())

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				log.Info("shutting down extension server")
				if err := srv.Shutdown(); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default "+config.DefaultServerAddr+")")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the built extension bundle")
	return cmd
}
