package usecase

import (
	"fmt"
	"sync"

	"github.com/bugnest/bugnest/pkg/domain/model"
)

// FeedItem is a notification ready to be shown
type FeedItem struct {
	Notification model.Notification
	Label        string
	Link         string
	MentionedBy  string
	Summary      string
}

// Feed is a fetched page of notifications. Seen state changes are applied locally so the
// unread count stays correct without fetching again.
type Feed struct {
	mu        sync.RWMutex
	items     []*model.Notification
	users     UserLookup
	supported bool
}

func newFeed(items []*model.Notification, users UserLookup, supported bool) *Feed {
	if items == nil {
		items = []*model.Notification{}
	}
	return &Feed{items: items, users: users, supported: supported}
}

// Supported is false when notifications are disabled; hosts show a "coming soon" state
func (f *Feed) Supported() bool {
	return f.supported
}

// Len returns the number of notifications in the feed
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// UnreadCount counts notifications not yet seen
func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := 0
	for _, n := range f.items {
		if !n.Seen {
			count++
		}
	}
	return count
}

// MarkSeen records locally that id was seen and reports whether it transitioned
func (f *Feed) MarkSeen(id model.NotificationID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.items {
		if n.ID == id && !n.Seen {
			n.Seen = true
			return true
		}
	}
	return false
}

// MarkAllSeen records locally that everything was seen and returns how many transitioned
func (f *Feed) MarkAllSeen() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	changed := 0
	for _, n := range f.items {
		if !n.Seen {
			n.Seen = true
			changed++
		}
	}
	return changed
}

// Items returns the feed in display form, most recent first
func (f *Feed) Items() []FeedItem {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]FeedItem, len(f.items))
	for i, n := range f.items {
		p := n.ContentType.Presentation()
		by := f.mentionedBy(n.MentionedByUserID)
		result[i] = FeedItem{
			Notification: *n,
			Label:        p.Label,
			Link:         p.Link(n.ContentID),
			MentionedBy:  by,
			Summary:      fmt.Sprintf("%s mentioned you in a %s", by, p.Label),
		}
	}
	return result
}

func (f *Feed) mentionedBy(id model.UserID) string {
	if f.users != nil {
		if u, ok := f.users.Get(id); ok {
			return u.DisplayName()
		}
	}
	return model.UnknownDisplayName
}
