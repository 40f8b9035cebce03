package model

import (
	"time"

	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// NotificationID is a UUID-based identifier for Notification
type NotificationID string

// notificationNamespace seeds the name-based IDs derived from NotificationKey
var notificationNamespace = uuid.MustParse("6f1b7c52-3d8e-4b7a-9c1e-2a5d0f4e8b31")

// NewNotificationID generates a new UUID v4 NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New().String())
}

// Notification records that one user mentioned another in a piece of content.
// Only Seen changes after creation.
type Notification struct {
	ID                NotificationID
	MentionedUserID   UserID
	MentionedByUserID UserID
	ContentType       types.ContentType
	ContentID         string
	Seen              bool
	CreatedAt         time.Time
}

// NotificationKey identifies a mention target within one piece of content
type NotificationKey struct {
	MentionedUserID UserID
	ContentType     types.ContentType
	ContentID       string
}

// Key returns the de-duplication key of n
func (n *Notification) Key() NotificationKey {
	return NotificationKey{
		MentionedUserID: n.MentionedUserID,
		ContentType:     n.ContentType,
		ContentID:       n.ContentID,
	}
}

// ID derives the identifier shared by every notification with this key, so stores can
// reject a second write of the same triple
func (k NotificationKey) ID() NotificationID {
	name := string(k.ContentType) + "\x00" + k.ContentID + "\x00" + string(k.MentionedUserID)
	return NotificationID(uuid.NewSHA1(notificationNamespace, []byte(name)).String())
}

// Validate checks the fields required before persisting n
func (n *Notification) Validate() error {
	if n.MentionedUserID == "" {
		return goerr.New("mentioned user ID is required")
	}
	if n.MentionedByUserID == "" {
		return goerr.New("mentioning user ID is required")
	}
	if n.MentionedUserID == n.MentionedByUserID {
		return goerr.New("self mention cannot be stored", goerr.V("user_id", n.MentionedUserID))
	}
	if !n.ContentType.IsValid() {
		return goerr.New("invalid content type", goerr.V("content_type", n.ContentType))
	}
	if n.ContentID == "" {
		return goerr.New("content ID is required")
	}
	return nil
}
