package model

import (
	"time"

	"github.com/m-mizutani/urlfetch/pkg/domain/types"
)

// BatchRequest is the payload accepted by the HTTP API to start a batch
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// BatchAccepted is returned once a batch has been dispatched
type BatchAccepted struct {
	ID    types.BatchID `json:"id"`
	Total int           `json:"total"`
}

// BatchReport summarizes one completed batch
type BatchReport struct {
	ID         types.BatchID `json:"id" firestore:"id"`
	StartedAt  time.Time     `json:"started_at" firestore:"started_at"`
	FinishedAt time.Time     `json:"finished_at" firestore:"finished_at"`
	Total      int           `json:"total" firestore:"total"`
	Saved      int           `json:"saved" firestore:"saved"`
	Failed     int           `json:"failed" firestore:"failed"`
	FailedURLs []string      `json:"failed_urls" firestore:"failed_urls"`
}

// NewBatchReport tallies outcomes into a report
func NewBatchReport(id types.BatchID, startedAt, finishedAt time.Time, outcomes []Outcome) *BatchReport {
	report := &BatchReport{
		ID:         id,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Total:      len(outcomes),
		FailedURLs: []string{},
	}

	for _, outcome := range outcomes {
		if outcome.Fetched() {
			report.Saved++
		} else {
			report.Failed++
			report.FailedURLs = append(report.FailedURLs, outcome.URL)
		}
	}

	return report
}

// Duration returns wall time spent on the batch
func (x *BatchReport) Duration() time.Duration {
	return x.FinishedAt.Sub(x.StartedAt)
}
