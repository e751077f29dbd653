package config

import (
	"context"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/infra/storage"
	"github.com/urfave/cli/v3"
)

const defaultOutputDir = "output"

// Output holds the destination of fetched bodies
type Output struct {
	Dir       string
	GCSBucket string
	GCSPrefix string
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory, created if missing",
			Value:       defaultOutputDir,
			Destination: &c.Dir,
			Sources:     cli.EnvVars("URLFETCH_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Write to this Cloud Storage bucket instead of the output directory",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("URLFETCH_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("URLFETCH_GCS_PREFIX"),
		},
	}
}

// Configure builds the storage. The returned closer must be called once
// the storage is no longer used.
func (c *Output) Configure(ctx context.Context, gcp *GCP) (interfaces.Storage, func(), error) {
	if c.GCSBucket == "" {
		return storage.NewFileSystem(c.Dir), func() {}, nil
	}

	client, err := gcs.NewClient(ctx, gcp.ClientOptions()...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create storage client")
	}

	closer := func() {
		_ = client.Close()
	}
	return storage.NewGCS(client, c.GCSBucket, c.GCSPrefix), closer, nil
}
