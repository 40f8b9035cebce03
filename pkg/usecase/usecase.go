package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/service/directory"
	"github.com/bugnest/bugnest/pkg/service/suggest"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/bugnest/bugnest/pkg/utils/logging"
)

type UseCases struct {
	repo      interfaces.Repository
	directory *directory.Cache
	feedLimit int

	// notificationsSupported is resolved once, by WithNotificationsSupported or Init
	notificationsSupported *atomic.Bool
	supportedFixed         bool

	Directory    *directory.Cache
	Suggest      *suggest.Engine
	Mention      *MentionUseCase
	Notification *NotificationUseCase
}

type Option func(*UseCases)

// WithDirectory sets the directory cache. By default the directory is read from the user repository.
func WithDirectory(cache *directory.Cache) Option {
	return func(uc *UseCases) {
		uc.directory = cache
	}
}

// WithNotificationsSupported fixes the notification capability instead of probing the store in Init
func WithNotificationsSupported(supported bool) Option {
	return func(uc *UseCases) {
		uc.notificationsSupported.Store(supported)
		uc.supportedFixed = true
	}
}

// WithFeedLimit sets the notification page size
func WithFeedLimit(limit int) Option {
	return func(uc *UseCases) {
		if limit > 0 {
			uc.feedLimit = limit
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:                   repo,
		feedLimit:              DefaultFeedLimit,
		notificationsSupported: &atomic.Bool{},
	}
	uc.notificationsSupported.Store(true)

	for _, opt := range opts {
		opt(uc)
	}

	if uc.directory == nil {
		uc.directory = directory.New(directory.NewRepositorySource(repo.User()))
	}

	uc.Directory = uc.directory
	uc.Suggest = suggest.NewEngine(uc.directory)
	uc.Mention = NewMentionUseCase(repo.Notification(), uc.notificationsSupported)
	uc.Notification = NewNotificationUseCase(repo.Notification(), uc.directory, uc.notificationsSupported, uc.feedLimit)

	return uc
}

// Init loads the user directory and resolves whether notifications are supported.
// Neither failure is fatal: the directory degrades to no suggestions and an unprovisioned
// notification store disables the feature.
func (uc *UseCases) Init(ctx context.Context) {
	if err := uc.directory.Load(ctx); err != nil {
		errutil.Warn(ctx, err, "user directory unavailable")
	}

	if uc.supportedFixed {
		return
	}

	if err := uc.repo.Notification().Probe(ctx); err != nil {
		uc.notificationsSupported.Store(false)
		if errors.Is(err, interfaces.ErrNotificationStoreUnavailable) {
			logging.From(ctx).Warn("notification store is not provisioned, notifications disabled")
			return
		}
		errutil.Handle(ctx, err, "failed to probe notification store, notifications disabled")
		return
	}

	logging.From(ctx).Info("notifications enabled")
}

// NotificationsSupported reports the resolved capability
func (uc *UseCases) NotificationsSupported() bool {
	return uc.notificationsSupported.Load()
}
