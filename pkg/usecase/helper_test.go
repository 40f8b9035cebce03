package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/repository/memory"
)

// stubNotificationRepository wraps the memory store to inject failures and delays
type stubNotificationRepository struct {
	interfaces.NotificationRepository

	mu       sync.Mutex
	failFor  map[model.UserID]error
	holdFor  map[model.UserID]chan struct{}
	delay    time.Duration
	creates  atomic.Int32
	listErr  error
	probeErr error
}

func newStubRepository() (*memory.Memory, *stubNotificationRepository) {
	mem := memory.New()
	return mem, &stubNotificationRepository{
		NotificationRepository: mem.Notification(),
		failFor:                make(map[model.UserID]error),
		holdFor:                make(map[model.UserID]chan struct{}),
	}
}

func (s *stubNotificationRepository) fail(userID model.UserID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[userID] = err
}

// hold blocks writes for userID until the returned release func is called
func (s *stubNotificationRepository) hold(userID model.UserID) func() {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holdFor[userID] = ch
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *stubNotificationRepository) Probe(ctx context.Context) error {
	if s.probeErr != nil {
		return s.probeErr
	}
	return s.NotificationRepository.Probe(ctx)
}

func (s *stubNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	s.creates.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	err := s.failFor[n.MentionedUserID]
	held := s.holdFor[n.MentionedUserID]
	s.mu.Unlock()
	if held != nil {
		<-held
	}
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, errors.New("write was cancelled")
	}
	return s.NotificationRepository.Create(ctx, n)
}

func (s *stubNotificationRepository) ListByUser(ctx context.Context, userID model.UserID, limit int) ([]*model.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.NotificationRepository.ListByUser(ctx, userID, limit)
}

// stubRepository swaps the notification store of a memory repository
type stubRepository struct {
	*memory.Memory
	notification interfaces.NotificationRepository
}

func (r *stubRepository) Notification() interfaces.NotificationRepository {
	return r.notification
}
