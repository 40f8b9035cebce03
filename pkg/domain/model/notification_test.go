package model_test

import (
	"testing"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNotification_Validate(t *testing.T) {
	valid := func() *model.Notification {
		return &model.Notification{
			MentionedUserID:   "u2",
			MentionedByUserID: "u1",
			ContentType:       types.ContentTypeBugComment,
			ContentID:         "bug-42",
		}
	}

	t.Run("valid", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("self mention", func(t *testing.T) {
		n := valid()
		n.MentionedUserID = "u1"
		gt.Value(t, n.Validate()).NotNil()
	})

	t.Run("unknown content type", func(t *testing.T) {
		n := valid()
		n.ContentType = "wiki"
		gt.Value(t, n.Validate()).NotNil()
	})

	t.Run("missing content ID", func(t *testing.T) {
		n := valid()
		n.ContentID = ""
		gt.Value(t, n.Validate()).NotNil()
	})

	t.Run("missing mentioner", func(t *testing.T) {
		n := valid()
		n.MentionedByUserID = ""
		gt.Value(t, n.Validate()).NotNil()
	})
}

func TestNotification_Key(t *testing.T) {
	a := &model.Notification{MentionedUserID: "u2", ContentType: types.ContentTypeBug, ContentID: "b1", MentionedByUserID: "u1"}
	b := &model.Notification{MentionedUserID: "u2", ContentType: types.ContentTypeBug, ContentID: "b1", MentionedByUserID: "u3"}
	c := &model.Notification{MentionedUserID: "u2", ContentType: types.ContentTypeBugComment, ContentID: "b1"}

	gt.Value(t, a.Key()).Equal(b.Key())
	gt.Value(t, a.Key()).NotEqual(c.Key())
}

func TestNewNotificationID(t *testing.T) {
	a := model.NewNotificationID()
	b := model.NewNotificationID()
	gt.String(t, string(a)).NotEqual("")
	gt.Value(t, a).NotEqual(b)
}

func TestNotificationKey_ID(t *testing.T) {
	a := model.NotificationKey{MentionedUserID: "u2", ContentType: types.ContentTypeBug, ContentID: "b1"}
	b := model.NotificationKey{MentionedUserID: "u2", ContentType: types.ContentTypeBug, ContentID: "b1"}
	c := model.NotificationKey{MentionedUserID: "u2", ContentType: types.ContentTypeBugComment, ContentID: "b1"}
	d := model.NotificationKey{MentionedUserID: "u2b", ContentType: types.ContentTypeBug, ContentID: "1"}

	gt.Value(t, a.ID()).Equal(b.ID())
	gt.Value(t, a.ID()).NotEqual(c.ID())
	gt.Value(t, a.ID()).NotEqual(d.ID())
	gt.Value(t, len(a.ID())).Equal(36)
}
