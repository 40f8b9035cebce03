package cli

import (
	"context"

	"github.com/bugnest/bugnest/pkg/cli/config"
	"github.com/bugnest/bugnest/pkg/service/worker"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/bugnest/bugnest/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSyncUsers() *cli.Command {
	var repoCfg config.Repository
	var dirSrc directorySource

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, dirSrc.Flags()...)

	return &cli.Command{
		Name:  "sync-users",
		Usage: "Refresh the stored user directory once from the users file or Slack",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			source, err := dirSrc.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure directory source")
			}
			if source == nil {
				return goerr.Wrap(config.ErrInvalidConfig, "either --users-file or --slack-bot-token is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			count, err := worker.NewDirectorySyncWorker(repo.User(), source, 0).Sync(ctx)
			if err != nil {
				return err
			}

			logging.Default().Info("User directory synced", "count", count, "backend", repoCfg.Backend())
			return nil
		},
	}
}
