package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/urlfetch/pkg/cli/config"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
	"github.com/m-mizutani/urlfetch/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

const description = `Reads one URL per line from input_file and writes each response body to
<output>/<sanitized URL>.txt. An input file named "serve" must be given with
a path prefix such as ./serve.`

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		fileCfg   config.File
		loggerCfg config.Logger
		sentryCfg config.Sentry
		p         pipeline
	)
	var logger *slog.Logger

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, p.Flags()...)

	app := &cli.Command{
		Name:        "urlfetch",
		Usage:       "Fetch URLs listed in a file concurrently and save each response body",
		ArgsUsage:   "<input_file>",
		Description: description,
		Version:     types.Version,
		Flags:       flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := fileCfg.Apply(c.IsSet, &p.fetch, &p.output, &loggerCfg); err != nil {
				return nil, err
			}

			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			logger.Debug("Sentry configured", slog.Any("sentry", sentryCfg))

			return ctx, nil
		},
		Action: runFetch(&p),
		Commands: []*cli.Command{
			cmdServe(&p),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		errutil.Handle(ctxlog.With(ctx, logger), "CLI execution failed", err)
		errutil.Flush()
		return err
	}

	return nil
}
