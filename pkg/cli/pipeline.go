package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/cli/config"
	"github.com/m-mizutani/urlfetch/pkg/infra/httpfetch"
	"github.com/m-mizutani/urlfetch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// pipeline groups the configuration shared by the root command and serve
type pipeline struct {
	fetch     config.Fetch
	output    config.Output
	gcp       config.GCP
	firestore config.Firestore
	slack     config.Slack
}

func (p *pipeline) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, p.fetch.Flags()...)
	flags = append(flags, p.output.Flags()...)
	flags = append(flags, p.gcp.Flags()...)
	flags = append(flags, p.firestore.Flags()...)
	flags = append(flags, p.slack.Flags()...)
	return flags
}

// build wires the batch use case and prepares its storage. The returned
// cleanup is never nil, even on error, and releases every client created here.
func (p *pipeline) build(ctx context.Context) (*usecase.Batch, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if err := p.fetch.Validate(); err != nil {
		return nil, cleanup, err
	}

	storage, closeStorage, err := p.output.Configure(ctx, &p.gcp)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStorage)

	if err := storage.Prepare(ctx); err != nil {
		return nil, cleanup, goerr.Wrap(err, "failed to prepare output")
	}

	recorder, closeRecorder, err := p.firestore.Configure(ctx, &p.gcp)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeRecorder)

	fetcher := httpfetch.New(p.fetch.Timeout())
	closers = append(closers, fetcher.Close)

	ctxlog.From(ctx).Debug("Pipeline configured",
		slog.Any("fetch", p.fetch),
		slog.Any("output", p.output),
		slog.Bool("firestore", recorder != nil),
		slog.Any("slack", p.slack),
	)

	uc := usecase.NewBatch(fetcher, storage,
		usecase.WithConcurrency(p.fetch.Concurrency),
		usecase.WithRecorder(recorder),
		usecase.WithNotifier(p.slack.Configure()),
	)
	return uc, cleanup, nil
}
