package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bugnest/bugnest/pkg/cli/config"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/bugnest/bugnest/pkg/utils/safe"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdFeed() *cli.Command {
	var repoCfg config.Repository
	var userID string
	var limit int
	var markAll bool
	var noColor bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID whose notifications are shown",
			Required:    true,
			Destination: &userID,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of notifications to show",
			Value:       usecase.DefaultFeedLimit,
			Destination: &limit,
		},
		&cli.BoolFlag{
			Name:        "mark-seen",
			Usage:       "Mark all notifications of the user as seen after printing",
			Destination: &markAll,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output (also disabled when stdout is not a terminal or NO_COLOR is set)",
			Destination: &noColor,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "feed",
		Usage: "Show the notification feed of a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			uc := usecase.New(repo, usecase.WithFeedLimit(limit))
			uc.Init(ctx)

			id := model.UserID(userID)
			feed, err := uc.Notification.FetchFor(ctx, id)
			if err != nil {
				return err
			}

			printFeed(c.Root().Writer, feed, noColor || color.NoColor)

			if markAll && feed.Supported() {
				changed, err := uc.Notification.MarkAllSeen(ctx, id)
				if err != nil {
					return err
				}
				logging.Default().Info("Marked notifications as seen", "user_id", id, "changed", changed)
			}
			return nil
		},
	}
}

func printFeed(w io.Writer, feed *usecase.Feed, noColor bool) {
	unread := color.New(color.FgYellow, color.Bold)
	faint := color.New(color.Faint)
	if noColor {
		unread.DisableColor()
		faint.DisableColor()
	}

	if !feed.Supported() {
		_, _ = fmt.Fprintln(w, "Notifications are coming soon.")
		return
	}

	if feed.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No notifications.")
		return
	}

	_, _ = fmt.Fprintf(w, "%d unread\n", feed.UnreadCount())
	for _, item := range feed.Items() {
		marker := " "
		if !item.Notification.Seen {
			marker = unread.Sprint("*")
		}
		_, _ = fmt.Fprintf(w, "%s %s  %s  %s\n",
			marker,
			item.Summary,
			faint.Sprint(item.Link),
			faint.Sprint(item.Notification.CreatedAt.Format(time.DateTime)),
		)
	}
}
