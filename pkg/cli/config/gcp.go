package config

import (
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// GCP holds Google Cloud credentials shared by GCS and Firestore clients
type GCP struct {
	CredentialsFile string
}

// Flags returns CLI flags for Google Cloud configuration
func (c *GCP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcp-credentials",
			Usage:       "Path to a service account key file (default: application default credentials)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("URLFETCH_GCP_CREDENTIALS"),
		},
	}
}

// ClientOptions returns options for Google Cloud clients
func (c *GCP) ClientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}
