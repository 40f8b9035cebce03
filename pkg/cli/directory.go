package cli

import (
	"github.com/bugnest/bugnest/pkg/cli/config"
	"github.com/bugnest/bugnest/pkg/service/directory"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// directorySource picks where directory entries are synced from.
// A users file wins over Slack. It returns nil when neither is configured.
type directorySource struct {
	usersFile string
	slack     config.Slack
}

func (x *directorySource) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "users-file",
			Usage:       "TOML file with [[user]] entries used to seed the user directory",
			Category:    "Directory",
			Sources:     cli.EnvVars("BUGNEST_USERS_FILE"),
			Destination: &x.usersFile,
		},
	}
	return append(flags, x.slack.Flags()...)
}

func (x *directorySource) Configure() (directory.Source, error) {
	if x.usersFile != "" {
		users, err := config.LoadUsersFile(x.usersFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load users file")
		}
		logging.Default().Info("Directory source: users file", "path", x.usersFile, "count", len(users))
		return directory.NewStaticSource(users), nil
	}

	svc, err := x.slack.Configure()
	if err != nil {
		return nil, err
	}
	if svc != nil {
		logging.Default().Info("Directory source: Slack", "slack", x.slack)
		return directory.NewSlackSource(svc), nil
	}

	return nil, nil
}
