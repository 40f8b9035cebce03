package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func runUserRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("GetAll on empty repository", func(t *testing.T) {
		repo := newRepo(t)
		users, err := repo.User().GetAll(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(0)
	})

	t.Run("SaveMany and GetAll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := fmt.Sprintf("u%d", time.Now().UnixNano())

		users := []*model.User{
			{ID: model.UserID(base + "_1"), FullName: "Alice Smith", Nickname: "alice", Role: types.RoleAdmin},
			{ID: model.UserID(base + "_2"), FullName: "Albert Jones", Role: types.RoleDeveloper},
			{ID: model.UserID(base + "_3"), Nickname: "bob", Role: types.RoleUser},
		}
		gt.NoError(t, repo.User().SaveMany(ctx, users)).Required()

		got, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3).Required()

		byID := make(map[model.UserID]*model.User)
		for _, u := range got {
			byID[u.ID] = u
		}
		for _, want := range users {
			u, ok := byID[want.ID]
			gt.Bool(t, ok).True()
			if !ok {
				continue
			}
			gt.Value(t, u.FullName).Equal(want.FullName)
			gt.Value(t, u.Nickname).Equal(want.Nickname)
			gt.Value(t, u.Role).Equal(want.Role)
		}
	})

	t.Run("SaveMany upserts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := model.UserID(fmt.Sprintf("u%d", time.Now().UnixNano()))

		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{{ID: id, FullName: "Old Name", Role: types.RoleUser}})).Required()
		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{{ID: id, FullName: "New Name", Role: types.RoleUser}})).Required()

		got, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].FullName).Equal("New Name")
	})

	t.Run("returned users are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := model.UserID(fmt.Sprintf("u%d", time.Now().UnixNano()))
		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{{ID: id, Nickname: "carol", Role: types.RoleUser}})).Required()

		got, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		got[0].Nickname = "mutated"

		again, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, again[0].Nickname).Equal("carol")
	})

	t.Run("DeleteAll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := fmt.Sprintf("u%d", time.Now().UnixNano())

		users := make([]*model.User, 0, 10)
		for i := 0; i < 10; i++ {
			users = append(users, &model.User{ID: model.UserID(fmt.Sprintf("%s_%d", base, i)), FullName: fmt.Sprintf("User %d", i), Role: types.RoleUser})
		}
		gt.NoError(t, repo.User().SaveMany(ctx, users)).Required()
		gt.NoError(t, repo.User().DeleteAll(ctx)).Required()

		got, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(0)
	})
}

func TestMemoryUserRepository(t *testing.T) {
	runUserRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreUserRepository(t *testing.T) {
	runUserRepositoryTest(t, newFirestoreRepository)
}

func TestPostgresUserRepository(t *testing.T) {
	runUserRepositoryTest(t, newPostgresRepository)
}
