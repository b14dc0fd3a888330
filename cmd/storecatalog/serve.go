package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkchain/storecatalog/internal/adminapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP and keep it fresh on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !c.app.WarmStart() {
				go c.app.SchedCatalogRefreshTask(ctx)
			}
			if err := c.app.StartBackgroundJobs(ctx); err != nil {
				return err
			}

			if addr == "" {
				addr = fmt.Sprintf("%s:%d", c.cfg.Web.Host, c.cfg.Web.Port)
			}
			e := adminapi.NewServer(c.app)
			errCh := make(chan error, 1)
			go func() { errCh <- adminapi.Start(e, addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			zap.L().Info("shutting down", zap.String("namespace", "api"))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default web.host:web.port)")
	return cmd
}
