package cli

import (
	"context"

	"github.com/bugnest/bugnest/pkg/cli/config"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var usersFile string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a users file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "users-file",
				Usage:       "TOML file with [[user]] entries",
				Required:    true,
				Sources:     cli.EnvVars("BUGNEST_USERS_FILE"),
				Destination: &usersFile,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			users, err := config.LoadUsersFile(usersFile)
			if err != nil {
				return goerr.Wrap(err, "users file validation failed")
			}

			roles := make(map[types.Role]int)
			for _, u := range users {
				roles[u.Role]++
			}

			logger.Info("Users file validation passed",
				"path", usersFile,
				"user_count", len(users),
				"admin_count", roles[types.RoleAdmin],
				"developer_count", roles[types.RoleDeveloper],
			)
			return nil
		},
	}
}
