package interfaces

import (
	"context"
	"errors"

	"github.com/bugnest/bugnest/pkg/domain/model"
)

// ErrNotificationStoreUnavailable means the notification table or collection is missing or unreachable.
// Callers treat it as "notifications are not supported" rather than as a failure.
var ErrNotificationStoreUnavailable = errors.New("notification store unavailable")

// ErrNotificationNotFound is returned when a notification ID does not exist
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists mention notifications
type NotificationRepository interface {
	// Probe checks once whether the backing store is provisioned.
	// It returns an error wrapping ErrNotificationStoreUnavailable when it is not.
	Probe(ctx context.Context) error

	// Create stores n under n.Key().ID(), assigning CreatedAt, and returns the stored copy.
	// When a record with the same key already exists it is returned unchanged and nothing is written.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByUser returns notifications for the mentioned user, most recent first
	ListByUser(ctx context.Context, userID model.UserID, limit int) ([]*model.Notification, error)

	// MarkSeen sets Seen on one notification of userID. Marking an already seen notification is
	// not an error; an unknown ID, or one mentioning another user, returns an error wrapping
	// ErrNotificationNotFound.
	MarkSeen(ctx context.Context, userID model.UserID, id model.NotificationID) error

	// MarkAllSeen sets Seen on every notification of the user and returns how many changed
	MarkAllSeen(ctx context.Context, userID model.UserID) (int, error)
}
