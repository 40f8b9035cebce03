package usecase

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/mention"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxConcurrentWrites bounds notification writes per Process call
const maxConcurrentWrites = 8

// MentionOutcome is the result of persisting the notification for one mentioned user
type MentionOutcome struct {
	UserID       model.UserID
	Notification *model.Notification
	Err          error
}

// Persisted reports whether the notification was stored
func (o MentionOutcome) Persisted() bool {
	return o.Err == nil && o.Notification != nil
}

// MentionReport lists one outcome per distinct mentioned user, in document order
type MentionReport struct {
	Outcomes []MentionOutcome
}

// Persisted returns the stored notifications
func (r *MentionReport) Persisted() []*model.Notification {
	result := make([]*model.Notification, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Persisted() {
			result = append(result, o.Notification)
		}
	}
	return result
}

// Failed returns the outcomes that could not be stored
func (r *MentionReport) Failed() []MentionOutcome {
	var result []MentionOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			result = append(result, o)
		}
	}
	return result
}

// MentionUseCase turns the mentions of submitted content into notifications
type MentionUseCase struct {
	repo      interfaces.NotificationRepository
	supported *atomic.Bool
	inflight  singleflight.Group
}

func NewMentionUseCase(repo interfaces.NotificationRepository, supported *atomic.Bool) *MentionUseCase {
	if supported == nil {
		supported = &atomic.Bool{}
		supported.Store(true)
	}
	return &MentionUseCase{
		repo:      repo,
		supported: supported,
	}
}

// Process stores one notification per distinct user mentioned in text. It must be called only
// after the content itself was saved, with the exact raw text that was saved.
//
// Self mentions and tokens without a user ID are skipped. Persistence failures are reported per
// mention in the returned report; the error is reserved for invalid arguments. When notifications
// are not supported the report is empty. Writes that already started are not cancelled with ctx.
func (uc *MentionUseCase) Process(ctx context.Context, text string, contentType types.ContentType, contentID string, actingUserID model.UserID) (*MentionReport, error) {
	if !contentType.IsValid() {
		return nil, goerr.Wrap(ErrInvalidContentType, "cannot process mentions", goerr.V(ContentTypeKey, contentType))
	}
	if contentID == "" {
		return nil, goerr.Wrap(ErrContentIDRequired, "cannot process mentions")
	}
	if actingUserID == "" {
		return nil, goerr.Wrap(ErrUserIDRequired, "cannot process mentions", goerr.V(ContentIDKey, contentID))
	}

	report := &MentionReport{Outcomes: []MentionOutcome{}}
	if !uc.supported.Load() {
		return report, nil
	}

	var targets []*model.Notification
	seen := make(map[model.NotificationKey]struct{})
	for _, token := range mention.ExtractAll(text) {
		n := &model.Notification{
			MentionedUserID:   model.UserID(token.UserID),
			MentionedByUserID: actingUserID,
			ContentType:       contentType,
			ContentID:         contentID,
		}
		if n.MentionedUserID == "" || n.MentionedUserID == actingUserID {
			continue
		}
		if _, dup := seen[n.Key()]; dup {
			continue
		}
		seen[n.Key()] = struct{}{}
		targets = append(targets, n)
	}

	if len(targets) == 0 {
		return report, nil
	}

	// in-flight writes survive cancellation of the request that started them
	writeCtx := context.WithoutCancel(ctx)

	outcomes := make([]MentionOutcome, len(targets))
	var eg errgroup.Group
	eg.SetLimit(maxConcurrentWrites)
	for i, n := range targets {
		eg.Go(func() error {
			created, err := uc.create(writeCtx, n)
			outcomes[i] = MentionOutcome{UserID: n.MentionedUserID, Notification: created, Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range outcomes {
		if o.Err == nil {
			report.Outcomes = append(report.Outcomes, o)
			continue
		}
		if errors.Is(o.Err, interfaces.ErrNotificationStoreUnavailable) {
			errutil.Warn(ctx, o.Err, "notification store unavailable, mention not stored")
			continue
		}
		errutil.Handle(ctx, o.Err, "failed to store mention notification")
		report.Outcomes = append(report.Outcomes, o)
	}

	logging.From(ctx).Debug("mentions processed",
		ContentTypeKey, contentType,
		ContentIDKey, contentID,
		"mentions", len(targets),
		"persisted", len(report.Persisted()),
		"failed", len(report.Failed()))

	return report, nil
}

// create collapses concurrent writes of the same (user, content type, content) triple. Writes
// that do not overlap are absorbed by the store, which keys records by n.Key().ID().
func (uc *MentionUseCase) create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	v, err, _ := uc.inflight.Do(string(n.Key().ID()), func() (any, error) {
		created, err := uc.repo.Create(ctx, n)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create notification",
				goerr.V(UserIDKey, n.MentionedUserID),
				goerr.V(ContentTypeKey, n.ContentType),
				goerr.V(ContentIDKey, n.ContentID))
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	created := *v.(*model.Notification)
	return &created, nil
}
