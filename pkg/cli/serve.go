package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bugnest/bugnest/pkg/cli/config"
	httpctrl "github.com/bugnest/bugnest/pkg/controller/http"
	"github.com/bugnest/bugnest/pkg/service/worker"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Values of --notifications
const (
	notificationsAuto     = "auto"
	notificationsEnabled  = "enabled"
	notificationsDisabled = "disabled"
)

func notificationOption(mode string) (usecase.Option, error) {
	switch mode {
	case notificationsAuto, "":
		return nil, nil
	case notificationsEnabled:
		return usecase.WithNotificationsSupported(true), nil
	case notificationsDisabled:
		return usecase.WithNotificationsSupported(false), nil
	default:
		return nil, goerr.Wrap(config.ErrInvalidConfig, "invalid notifications mode", goerr.V("mode", mode))
	}
}

func cmdServe() *cli.Command {
	var addr string
	var userHeader string
	var syncInterval time.Duration
	var feedLimit int
	var notifications string
	var repoCfg config.Repository
	var dirSrc directorySource

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BUGNEST_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "user-header",
			Usage:       "Request header carrying the acting user ID",
			Value:       httpctrl.DefaultUserHeader,
			Sources:     cli.EnvVars("BUGNEST_USER_HEADER"),
			Destination: &userHeader,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Interval of the user directory sync",
			Category:    "Directory",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("BUGNEST_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
		&cli.IntFlag{
			Name:        "feed-limit",
			Usage:       "Maximum number of notifications returned in a feed",
			Value:       usecase.DefaultFeedLimit,
			Sources:     cli.EnvVars("BUGNEST_FEED_LIMIT"),
			Destination: &feedLimit,
		},
		&cli.StringFlag{
			Name:        "notifications",
			Usage:       "Notification capability (auto, enabled, disabled). auto probes the store at startup",
			Value:       notificationsAuto,
			Sources:     cli.EnvVars("BUGNEST_NOTIFICATIONS"),
			Destination: &notifications,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, dirSrc.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			notifyOpt, err := notificationOption(notifications)
			if err != nil {
				return err
			}

			source, err := dirSrc.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure directory source")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// The directory cache is read once per session, so the stored directory
			// is refreshed before the use cases load it.
			var syncWorker *worker.DirectorySyncWorker
			if source != nil {
				syncWorker = worker.NewDirectorySyncWorker(repo.User(), source, syncInterval)
				if _, err := syncWorker.Sync(ctx); err != nil {
					errutil.Handle(ctx, err, "initial directory sync failed")
				}
				if err := syncWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start directory sync worker")
				}
			} else {
				logging.Default().Info("No directory source configured, serving the stored directory as is")
			}

			ucOpts := []usecase.Option{usecase.WithFeedLimit(feedLimit)}
			if notifyOpt != nil {
				ucOpts = append(ucOpts, notifyOpt)
			}
			uc := usecase.New(repo, ucOpts...)
			uc.Init(ctx)

			httpHandler := httpctrl.New(uc, httpctrl.WithUserHeader(userHeader))
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"notifications", uc.NotificationsSupported(),
					"repository", repoCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			stopWorker := func() {
				if syncWorker != nil {
					syncWorker.Stop()
				}
			}

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				stopWorker()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				stopWorker()

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
