package memory

import (
	"context"
	"sync"

	"github.com/bugnest/bugnest/pkg/domain/model"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[model.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[model.UserID]*model.User),
	}
}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		userCopy := *user
		users = append(users, &userCopy)
	}

	return users, nil
}

func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range users {
		userCopy := *user
		r.users[user.ID] = &userCopy
	}

	return nil
}

func (r *userRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[model.UserID]*model.User)
	return nil
}
