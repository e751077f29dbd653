package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/cli/config"
	controller "github.com/m-mizutani/urlfetch/pkg/controller/http"
	"github.com/m-mizutani/urlfetch/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe(p *pipeline) *cli.Command {
	var serverCfg config.Server

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server accepting URL batches",
		Flags: serverCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting urlfetch server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("server", serverCfg),
			)
			if serverCfg.APIToken == "" {
				logger.Warn("API token is not set, batch endpoint accepts any request")
			}

			batchUC, cleanup, err := p.build(ctx)
			defer cleanup()
			if err != nil {
				return err
			}

			server, err := controller.NewServer(
				ctx,
				batchUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithAPIToken(serverCfg.APIToken),
				controller.WithDispatcher(async.NewDispatcher()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
			}

			// in-flight batches get up to a minute to finish
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
