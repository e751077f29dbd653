package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	defaultTimeoutSec  = 10
	defaultConcurrency = 32
)

// Fetch holds fetch pipeline configuration
type Fetch struct {
	TimeoutSec  int
	Concurrency int
}

// Flags returns CLI flags for fetch configuration
func (c *Fetch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "timeout",
			Usage:       "Timeout for each request in seconds",
			Value:       defaultTimeoutSec,
			Destination: &c.TimeoutSec,
			Sources:     cli.EnvVars("URLFETCH_TIMEOUT"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Maximum number of concurrent requests (0 = no limit)",
			Value:       defaultConcurrency,
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("URLFETCH_CONCURRENCY"),
		},
	}
}

// Validate checks value ranges
func (c *Fetch) Validate() error {
	if c.TimeoutSec <= 0 {
		return goerr.New("timeout must be positive", goerr.V("timeout", c.TimeoutSec))
	}
	if c.Concurrency < 0 {
		return goerr.New("concurrency must not be negative", goerr.V("concurrency", c.Concurrency))
	}
	return nil
}

// Timeout returns the per-request timeout
func (c *Fetch) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
