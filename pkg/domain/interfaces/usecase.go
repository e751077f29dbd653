package interfaces

import (
	"context"

	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
)

// BatchUseCase defines the fetch-and-persist pipeline
type BatchUseCase interface {
	// Run fetches every URL, persists every fetched body and returns the report.
	// Per-URL fetch failures are not errors; persistence failures are.
	Run(ctx context.Context, id types.BatchID, urls []string) (*model.BatchReport, error)
}
