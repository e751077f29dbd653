package config

import (
	"context"

	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/infra/firestore"
	"github.com/urfave/cli/v3"
)

// Firestore holds the batch report ledger configuration
type Firestore struct {
	ProjectID  string
	DatabaseID string
	Collection string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID to record batch reports in Firestore",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("URLFETCH_FIRESTORE_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.DatabaseID,
			Sources:     cli.EnvVars("URLFETCH_FIRESTORE_DATABASE"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for batch reports",
			Value:       firestore.DefaultCollection,
			Destination: &c.Collection,
			Sources:     cli.EnvVars("URLFETCH_FIRESTORE_COLLECTION"),
		},
	}
}

// Configure returns a recorder, or nil when no project is configured
func (c *Firestore) Configure(ctx context.Context, gcp *GCP) (interfaces.Recorder, func(), error) {
	if c.ProjectID == "" {
		return nil, func() {}, nil
	}

	recorder, err := firestore.New(ctx, c.ProjectID, c.DatabaseID, c.Collection, gcp.ClientOptions()...)
	if err != nil {
		return nil, nil, err
	}

	return recorder, func() { _ = recorder.Close() }, nil
}
