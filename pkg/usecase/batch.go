package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps in-flight fetches and writes per batch
const DefaultConcurrency = 32

// Batch runs the fetch-and-persist pipeline
type Batch struct {
	fetcher     interfaces.Fetcher
	storage     interfaces.Storage
	recorder    interfaces.Recorder
	notifier    interfaces.Notifier
	concurrency int
	now         func() time.Time
}

// BatchOption is a functional option for Batch
type BatchOption func(*Batch)

// WithConcurrency sets the maximum number of concurrent tasks. Zero or a
// negative value lets every URL run at once.
func WithConcurrency(n int) BatchOption {
	return func(uc *Batch) {
		uc.concurrency = n
	}
}

// WithRecorder stores each report after the batch completes
func WithRecorder(recorder interfaces.Recorder) BatchOption {
	return func(uc *Batch) {
		uc.recorder = recorder
	}
}

// WithNotifier announces each report after the batch completes
func WithNotifier(notifier interfaces.Notifier) BatchOption {
	return func(uc *Batch) {
		uc.notifier = notifier
	}
}

// WithClock replaces time.Now for report timestamps
func WithClock(now func() time.Time) BatchOption {
	return func(uc *Batch) {
		uc.now = now
	}
}

// NewBatch creates a new Batch use case
func NewBatch(fetcher interfaces.Fetcher, storage interfaces.Storage, opts ...BatchOption) *Batch {
	uc := &Batch{
		fetcher:     fetcher,
		storage:     storage,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run fetches all urls, persists the fetched bodies and reports the result.
// Only persistence errors are returned.
func (uc *Batch) Run(ctx context.Context, id types.BatchID, urls []string) (*model.BatchReport, error) {
	logger := ctxlog.From(ctx).With("batch_id", id)
	ctx = ctxlog.With(ctx, logger)

	startedAt := uc.now()
	logger.Info("Starting batch",
		"total", len(urls),
		"concurrency", uc.concurrency,
	)

	for _, c := range model.FindCollisions(urls) {
		logger.Warn("Filename collision", "filename", c.Filename, "urls", c.URLs)
	}

	outcomes := uc.FetchAll(ctx, urls)
	if err := uc.ProcessResults(ctx, outcomes); err != nil {
		return nil, goerr.Wrap(err, "failed to persist results", goerr.V("batch_id", id))
	}

	report := model.NewBatchReport(id, startedAt, uc.now(), outcomes)
	logger.Info("Batch completed",
		"total", report.Total,
		"saved", report.Saved,
		"failed", report.Failed,
		"duration", report.Duration(),
	)

	uc.publish(ctx, report)
	return report, nil
}

// FetchAll fetches every URL concurrently and returns the outcomes in input
// order. It waits for all fetches to finish.
func (uc *Batch) FetchAll(ctx context.Context, urls []string) []model.Outcome {
	outcomes := make([]model.Outcome, len(urls))

	var eg errgroup.Group
	if uc.concurrency > 0 {
		eg.SetLimit(uc.concurrency)
	}

	for i, url := range urls {
		eg.Go(func() error {
			outcomes[i] = uc.fetcher.Fetch(ctx, url)
			return nil
		})
	}
	_ = eg.Wait() // fetch tasks never fail

	return outcomes
}

// SaveContent persists one outcome. An outcome without body is skipped.
func (uc *Batch) SaveContent(ctx context.Context, outcome model.Outcome) error {
	if !outcome.Fetched() {
		return nil
	}

	name := outcome.Filename()
	if err := uc.storage.Put(ctx, name, outcome.Body); err != nil {
		return goerr.Wrap(err, "failed to save content",
			goerr.V("url", outcome.URL),
			goerr.V("filename", name),
		)
	}

	ctxlog.From(ctx).Debug("Saved content",
		"url", outcome.URL,
		"location", uc.storage.Location(name),
		"size", len(outcome.Body),
	)
	return nil
}

// ProcessResults saves all outcomes concurrently and waits for them. The
// first write error is returned.
func (uc *Batch) ProcessResults(ctx context.Context, outcomes []model.Outcome) error {
	eg, ctx := errgroup.WithContext(ctx)
	if uc.concurrency > 0 {
		eg.SetLimit(uc.concurrency)
	}

	for _, outcome := range outcomes {
		eg.Go(func() error {
			return uc.SaveContent(ctx, outcome)
		})
	}

	return eg.Wait()
}

func (uc *Batch) publish(ctx context.Context, report *model.BatchReport) {
	logger := ctxlog.From(ctx)

	if uc.recorder != nil {
		if err := uc.recorder.Record(ctx, report); err != nil {
			logger.Warn("Failed to record batch report", "error", err)
		}
	}

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, report); err != nil {
			logger.Warn("Failed to notify batch report", "error", err)
		}
	}
}
