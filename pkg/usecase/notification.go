package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultFeedLimit is the number of notifications fetched for a feed
const DefaultFeedLimit = 20

// UserLookup resolves the user who wrote a mention, normally a *directory.Cache
type UserLookup interface {
	Get(id model.UserID) (*model.User, bool)
}

// NotificationUseCase reads and acknowledges a user's mention notifications
type NotificationUseCase struct {
	repo      interfaces.NotificationRepository
	users     UserLookup
	supported *atomic.Bool
	limit     int
}

func NewNotificationUseCase(repo interfaces.NotificationRepository, users UserLookup, supported *atomic.Bool, limit int) *NotificationUseCase {
	if supported == nil {
		supported = &atomic.Bool{}
		supported.Store(true)
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &NotificationUseCase{
		repo:      repo,
		users:     users,
		supported: supported,
		limit:     limit,
	}
}

// FetchFor returns the most recent notifications of userID. When notifications are not
// supported or the store fails the feed is empty; the error is reserved for a missing user ID.
func (uc *NotificationUseCase) FetchFor(ctx context.Context, userID model.UserID) (*Feed, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrUserIDRequired, "cannot fetch notifications")
	}

	if !uc.supported.Load() {
		return newFeed(nil, uc.users, false), nil
	}

	list, err := uc.repo.ListByUser(ctx, userID, uc.limit)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotificationStoreUnavailable) {
			errutil.Warn(ctx, err, "notification store unavailable, returning empty feed")
			return newFeed(nil, uc.users, false), nil
		}
		errutil.Handle(ctx, goerr.Wrap(err, "failed to list notifications", goerr.V(UserIDKey, userID)),
			"returning empty feed")
		return newFeed(nil, uc.users, true), nil
	}

	return newFeed(list, uc.users, true), nil
}

// MarkSeen marks one notification of userID seen. Marking it again is a no-op. An unknown ID,
// or one addressed to another user, returns an error wrapping interfaces.ErrNotificationNotFound;
// store outages are logged and ignored.
func (uc *NotificationUseCase) MarkSeen(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	if userID == "" {
		return goerr.Wrap(ErrUserIDRequired, "cannot mark notification seen", goerr.V(NotificationIDKey, id))
	}
	if !uc.supported.Load() {
		return nil
	}

	if err := uc.repo.MarkSeen(ctx, userID, id); err != nil {
		if errors.Is(err, interfaces.ErrNotificationNotFound) {
			return goerr.Wrap(err, "cannot mark notification seen",
				goerr.V(NotificationIDKey, id), goerr.V(UserIDKey, userID))
		}
		errutil.Handle(ctx, goerr.Wrap(err, "failed to mark notification seen", goerr.V(NotificationIDKey, id)),
			"mark seen skipped")
	}
	return nil
}

// MarkAllSeen marks every notification of userID seen and returns how many changed
func (uc *NotificationUseCase) MarkAllSeen(ctx context.Context, userID model.UserID) (int, error) {
	if userID == "" {
		return 0, goerr.Wrap(ErrUserIDRequired, "cannot mark notifications seen")
	}
	if !uc.supported.Load() {
		return 0, nil
	}

	changed, err := uc.repo.MarkAllSeen(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to mark all notifications seen", goerr.V(UserIDKey, userID)),
			"mark all seen skipped")
		return 0, nil
	}
	return changed, nil
}
