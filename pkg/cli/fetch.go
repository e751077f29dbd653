package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/types"
	"github.com/m-mizutani/urlfetch/pkg/infra/urlfile"
	"github.com/urfave/cli/v3"
)

// runFetch is the root action: read the input file, fetch every URL and
// persist the bodies. Per-URL failures are logged, not returned.
func runFetch(p *pipeline) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() == 0 {
			return goerr.New("input file is required")
		}
		if c.Args().Len() > 1 {
			return goerr.New("too many arguments", goerr.V("args", c.Args().Slice()))
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		uc, cleanup, err := p.build(ctx)
		defer cleanup()
		if err != nil {
			return err
		}

		urls, err := urlfile.Read(ctx, c.Args().First())
		if err != nil {
			return err
		}

		if _, err := uc.Run(ctx, types.BatchID(uuid.NewString()), urls); err != nil {
			return err
		}
		return nil
	}
}
