package interfaces

import (
	"context"

	"github.com/m-mizutani/urlfetch/pkg/domain/model"
)

// Fetcher retrieves a single URL. Failures are logged by the implementation
// and surface only as an Outcome without body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) model.Outcome
}
