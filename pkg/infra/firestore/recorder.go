package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per batch, keyed by batch ID
const DefaultCollection = "batches"

// Recorder stores batch reports as Firestore documents
type Recorder struct {
	client     *firestore.Client
	collection string
}

// New connects to the Firestore database of projectID
func New(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (*Recorder, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	return &Recorder{
		client:     client,
		collection: collection,
	}, nil
}

// Record writes report to <collection>/<report.ID>, replacing any document
// with the same ID.
func (x *Recorder) Record(ctx context.Context, report *model.BatchReport) error {
	doc := x.client.Collection(x.collection).Doc(report.ID.String())
	if _, err := doc.Set(ctx, report); err != nil {
		return goerr.Wrap(err, "failed to save batch report",
			goerr.V("collection", x.collection),
			goerr.V("id", report.ID),
			goerr.V("grpc_code", status.Code(err).String()),
		)
	}

	ctxlog.From(ctx).Debug("Saved batch report",
		"collection", x.collection,
		"id", report.ID,
	)
	return nil
}

// Close closes the underlying client
func (x *Recorder) Close() error {
	return x.client.Close()
}
