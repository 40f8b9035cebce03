package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// notificationEntry keeps insertion order so equal timestamps still list newest first
type notificationEntry struct {
	notification *model.Notification
	seq          int64
}

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[model.NotificationID]*notificationEntry
	seq           int64
	unavailable   bool
	now           func() time.Time
}

var _ interfaces.NotificationRepository = &notificationRepository{}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[model.NotificationID]*notificationEntry),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (r *notificationRepository) errUnavailable() error {
	return goerr.Wrap(interfaces.ErrNotificationStoreUnavailable, "notification store is not provisioned", goerr.V("backend", "memory"))
}

func (r *notificationRepository) Probe(ctx context.Context) error {
	if r.unavailable {
		return r.errUnavailable()
	}
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if r.unavailable {
		return nil, r.errUnavailable()
	}
	if err := n.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid notification")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := n.Key().ID()
	if e, ok := r.notifications[id]; ok {
		existing := *e.notification
		return &existing, nil
	}

	created := *n
	created.ID = id
	created.Seen = false
	created.CreatedAt = r.now()

	r.seq++
	r.notifications[created.ID] = &notificationEntry{notification: &created, seq: r.seq}
	result := created
	return &result, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID model.UserID, limit int) ([]*model.Notification, error) {
	if r.unavailable {
		return nil, r.errUnavailable()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*notificationEntry, 0)
	for _, e := range r.notifications {
		if e.notification.MentionedUserID == userID {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].notification, entries[j].notification
		if a.CreatedAt.Equal(b.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	result := make([]*model.Notification, len(entries))
	for i, e := range entries {
		nCopy := *e.notification
		result[i] = &nCopy
	}
	return result, nil
}

func (r *notificationRepository) MarkSeen(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	if r.unavailable {
		return r.errUnavailable()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.notifications[id]
	if !ok || e.notification.MentionedUserID != userID {
		return goerr.Wrap(interfaces.ErrNotificationNotFound, "notification not found",
			goerr.V("notification_id", id), goerr.V("user_id", userID))
	}
	e.notification.Seen = true
	return nil
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID model.UserID) (int, error) {
	if r.unavailable {
		return 0, r.errUnavailable()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, e := range r.notifications {
		if n := e.notification; n.MentionedUserID == userID && !n.Seen {
			n.Seen = true
			changed++
		}
	}
	return changed, nil
}
