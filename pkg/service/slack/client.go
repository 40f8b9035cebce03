package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	// DefaultPageSize is the number of members fetched per users.list call
	DefaultPageSize = 200

	// slackbotID is a pseudo-user that is neither deleted nor flagged as a bot
	slackbotID = "USLACKBOT"
)

// client implements Service interface
type client struct {
	api      *slack.Client
	pageSize int
	teamID   string
	apiURL   string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithPageSize sets the users.list page size
func WithPageSize(size int) Option {
	return func(c *client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTeamID restricts listing to one workspace of an Enterprise Grid org
func WithTeamID(teamID string) Option {
	return func(c *client) {
		c.teamID = teamID
	}
}

// withAPIURL points the client at another endpoint, used by tests
func withAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		pageSize: DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// ListUsers retrieves all non-deleted, non-bot users in the workspace
func (c *client) ListUsers(ctx context.Context) ([]*User, error) {
	options := []slack.GetUsersOption{slack.GetUsersOptionLimit(c.pageSize)}
	if c.teamID != "" {
		options = append(options, slack.GetUsersOptionTeamID(c.teamID))
	}

	users, err := c.api.GetUsersContext(ctx, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users", goerr.V("teamID", c.teamID))
	}

	result := make([]*User, 0, len(users))
	for _, u := range users {
		// Skip deleted users and bots
		if u.Deleted || u.IsBot || u.ID == slackbotID {
			continue
		}

		result = append(result, &User{
			ID:          u.ID,
			Name:        u.Name,
			RealName:    u.RealName,
			DisplayName: u.Profile.DisplayName,
			Email:       u.Profile.Email,
			IsAdmin:     u.IsAdmin,
			IsOwner:     u.IsOwner,
		})
	}

	return result, nil
}
