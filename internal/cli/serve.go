package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/server"
)

var (
	flagServeAddr   string
	flagServeDryRun bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (or env: PC_SERVER_ADDR)")
	cmd.Flags().BoolVar(&flagServeDryRun, "dry-run", false, "Log messages instead of posting them")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.Notifier(ctx, cmd.ErrOrStderr(), flagServeDryRun)
	if err != nil {
		return fmt.Errorf("building notifier: %w", err)
	}

	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = flagServeAddr
	}

	srv := server.New(server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, app.Pipeline(n))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logger.Fields{"addr": srv.Addr()})
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
