package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
)

// RepositorySource reads the directory persisted by the sync worker.
// Users are ordered by display name so suggestions are stable across sessions.
type RepositorySource struct {
	repo interfaces.UserRepository
}

var _ Source = &RepositorySource{}

func NewRepositorySource(repo interfaces.UserRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get users from repository")
	}
	SortUsers(users)
	return users, nil
}

// SortUsers orders users by case-insensitive display name, then by ID
func SortUsers(users []*model.User) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := strings.ToLower(users[i].DisplayName()), strings.ToLower(users[j].DisplayName())
		if a != b {
			return a < b
		}
		return users[i].ID < users[j].ID
	})
}

// SlackSource lists workspace members straight from Slack
type SlackSource struct {
	svc slack.Service
}

var _ Source = &SlackSource{}

func NewSlackSource(svc slack.Service) *SlackSource {
	return &SlackSource{svc: svc}
}

func (s *SlackSource) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	members, err := s.svc.ListUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list Slack users")
	}

	users := make([]*model.User, len(members))
	for i, m := range members {
		users[i] = FromSlackUser(m)
	}
	SortUsers(users)
	return users, nil
}

// FromSlackUser converts a Slack member to a directory entry.
// Workspace admins and owners get the admin role; everyone else is a plain user.
func FromSlackUser(m *slack.User) *model.User {
	role := types.RoleUser
	if m.IsAdmin || m.IsOwner {
		role = types.RoleAdmin
	}
	return &model.User{
		ID:       model.UserID(m.ID),
		FullName: m.RealName,
		Nickname: m.DisplayName,
		Role:     role,
	}
}

// StaticSource serves a fixed list, typically read from the users file
type StaticSource struct {
	users []*model.User
}

var _ Source = &StaticSource{}

func NewStaticSource(users []*model.User) *StaticSource {
	return &StaticSource{users: users}
}

func (s *StaticSource) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	result := make([]*model.User, len(s.users))
	for i, u := range s.users {
		uCopy := *u
		result[i] = &uCopy
	}
	return result, nil
}
