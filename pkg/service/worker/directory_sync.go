package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/service/directory"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// DirectorySyncWorker copies the user directory from an upstream source (Slack or the users file)
// into the user repository on a fixed interval.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Sessions that already loaded their directory keep it; new sessions see the refreshed copy
type DirectorySyncWorker struct {
	repo     interfaces.UserRepository
	source   directory.Source
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	// synced is set after the first successful Sync
	synced atomic.Bool
}

// NewDirectorySyncWorker creates a new worker for refreshing the user directory
func NewDirectorySyncWorker(repo interfaces.UserRepository, source directory.Source, interval time.Duration) *DirectorySyncWorker {
	return &DirectorySyncWorker{
		repo:     repo,
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. Unless Sync already succeeded, the initial
// sync also runs in the background and does not block server startup.
func (w *DirectorySyncWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("sync interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("directory sync worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DirectorySyncWorker) Stop() {
	logging.Default().Info("directory sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("directory sync worker stopped")
}

func (w *DirectorySyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if !w.synced.Load() {
		if _, err := w.Sync(ctx); err != nil {
			logging.Default().Error("initial directory sync failed (will retry next interval)",
				"error", err.Error())
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				logging.Default().Error("directory sync failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("directory sync worker context cancelled")
			return
		}
	}
}

// Sync performs a single refresh cycle and returns the number of users stored.
// Replace strategy: DeleteAll then SaveMany. When the source fails the stored
// directory is left untouched.
func (w *DirectorySyncWorker) Sync(ctx context.Context) (int, error) {
	startTime := time.Now()

	users, err := w.source.ListActiveUsers(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list users from directory source")
	}

	if err := w.repo.DeleteAll(ctx); err != nil {
		return 0, goerr.Wrap(err, "failed to delete existing users")
	}

	if err := w.repo.SaveMany(ctx, users); err != nil {
		return 0, goerr.Wrap(err, "failed to save users", goerr.V("count", len(users)))
	}

	w.synced.Store(true)
	logging.Default().Info("directory sync completed",
		"count", len(users),
		"duration", time.Since(startTime).String())

	return len(users), nil
}
