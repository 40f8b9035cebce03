package config

import (
	"log/slog"

	"github.com/bugnest/bugnest/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack user directory source
type Slack struct {
	botToken string
	teamID   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for fetching workspace members)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("BUGNEST_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-team-id",
			Usage:       "Slack team ID to list members from (Enterprise Grid only)",
			Category:    "Slack",
			Destination: &x.teamID,
			Sources:     cli.EnvVars("BUGNEST_SLACK_TEAM_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("team-id", x.teamID),
	)
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// IsConfigured returns true when a bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure creates the Slack service, or returns nil when no bot token is set.
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	var opts []slack.Option
	if x.teamID != "" {
		opts = append(opts, slack.WithTeamID(x.teamID))
	}

	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
