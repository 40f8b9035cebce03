package memory

import (
	"github.com/bugnest/bugnest/pkg/domain/interfaces"
)

// Memory is an in-process repository for development and tests
type Memory struct {
	user         *userRepository
	notification *notificationRepository
}

var _ interfaces.Repository = &Memory{}

type Option func(*Memory)

// WithoutNotifications makes the notification store behave as if it was never provisioned
func WithoutNotifications() Option {
	return func(m *Memory) {
		m.notification.unavailable = true
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		user:         newUserRepository(),
		notification: newNotificationRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Close() error {
	return nil
}
