package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/repository/memory"
	"github.com/bugnest/bugnest/pkg/service/directory"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type failingSource struct{}

func (failingSource) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	return nil, errors.New("profile table missing")
}

func TestUseCases_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("probe disables notifications when the store is not provisioned", func(t *testing.T) {
		uc := usecase.New(memory.New(memory.WithoutNotifications()))
		gt.Bool(t, uc.NotificationsSupported()).True()

		uc.Init(ctx)
		gt.Bool(t, uc.NotificationsSupported()).False()

		report, err := uc.Mention.Process(ctx, "@[Bob](u2)", types.ContentTypeBug, "bug-1", "u1")
		gt.NoError(t, err).Required()
		gt.Array(t, report.Outcomes).Length(0)
	})

	t.Run("other probe failures also disable notifications", func(t *testing.T) {
		mem, stub := newStubRepository()
		stub.probeErr = errors.New("connection reset")
		uc := usecase.New(&stubRepository{Memory: mem, notification: stub})

		uc.Init(ctx)
		gt.Bool(t, uc.NotificationsSupported()).False()
	})

	t.Run("fixed capability skips probing", func(t *testing.T) {
		uc := usecase.New(memory.New(memory.WithoutNotifications()), usecase.WithNotificationsSupported(true))
		uc.Init(ctx)
		gt.Bool(t, uc.NotificationsSupported()).True()

		uc = usecase.New(memory.New(), usecase.WithNotificationsSupported(false))
		uc.Init(ctx)
		gt.Bool(t, uc.NotificationsSupported()).False()
	})

	t.Run("directory failure degrades suggestions only", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithDirectory(directory.New(failingSource{})))
		uc.Init(ctx)

		gt.Bool(t, uc.Directory.Available()).False()
		s, ok := uc.Suggest.Suggest("hi @al", 6, "u1")
		gt.Bool(t, ok).True()
		gt.Array(t, s.Candidates).Length(0)
		gt.Bool(t, uc.NotificationsSupported()).True()
	})

	t.Run("directory is loaded from the user repository", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{
			{ID: "1", Nickname: "alice"},
			{ID: "2", Nickname: "albert"},
			{ID: "3", Nickname: "bob"},
		})).Required()

		uc := usecase.New(repo)
		uc.Init(ctx)

		s, ok := uc.Suggest.Suggest("@al", 3, "")
		gt.Bool(t, ok).True()
		gt.Array(t, s.Candidates).Length(2).Required()
		gt.Value(t, s.Candidates[0].ID).Equal(model.UserID("2"))
		gt.Value(t, s.Candidates[1].ID).Equal(model.UserID("1"))
	})

	t.Run("custom feed limit", func(t *testing.T) {
		repo := memory.New()
		seed(t, repo.Notification(), "u2", "u1", types.ContentTypeBug, "a", "b", "c")

		uc := usecase.New(repo, usecase.WithFeedLimit(2))
		feed, err := uc.Notification.FetchFor(ctx, "u2")
		gt.NoError(t, err).Required()
		gt.Value(t, feed.Len()).Equal(2)
	})
}
