package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
	"github.com/m-mizutani/urlfetch/pkg/utils/async"
)

// BatchHandler accepts batches over HTTP and runs them in the background
type BatchHandler struct {
	batchUC    interfaces.BatchUseCase
	dispatcher *async.Dispatcher
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchUC interfaces.BatchUseCase, dispatcher *async.Dispatcher) *BatchHandler {
	return &BatchHandler{
		batchUC:    batchUC,
		dispatcher: dispatcher,
	}
}

// Create handles POST /batches. It replies 202 as soon as the batch is
// dispatched; the outcome is only visible in logs and configured reports.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req model.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode batch request", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, goerr.New("urls must not be empty"), http.StatusBadRequest)
		return
	}

	id := types.BatchID(uuid.NewString())
	urls := req.URLs

	h.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := h.batchUC.Run(ctx, id, urls); err != nil {
			return goerr.Wrap(err, "batch failed", goerr.V("batch_id", id))
		}
		return nil
	})

	logger.Info("Batch accepted", "batch_id", id, "total", len(urls))
	writeJSON(w, &model.BatchAccepted{ID: id, Total: len(urls)}, http.StatusAccepted)
}
