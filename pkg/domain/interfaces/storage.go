package interfaces

import (
	"context"

	"github.com/m-mizutani/urlfetch/pkg/domain/model"
)

// Storage persists fetched bodies under a flat namespace of file names
type Storage interface {
	// Prepare makes the destination ready, e.g. creates the output directory
	Prepare(ctx context.Context) error

	// Put writes body under name, overwriting any previous content
	Put(ctx context.Context, name string, body []byte) error

	// Location returns a human readable destination of name for logging
	Location(name string) string
}

// Recorder stores batch reports
type Recorder interface {
	Record(ctx context.Context, report *model.BatchReport) error
}

// Notifier announces completed batches
type Notifier interface {
	Notify(ctx context.Context, report *model.BatchReport) error
}
