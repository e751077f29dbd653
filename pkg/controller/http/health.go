package http

import (
	"net/http"

	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &model.HealthStatus{
		Status:  "healthy",
		Service: "urlfetch",
		Version: types.Version,
	}, http.StatusOK)
}
