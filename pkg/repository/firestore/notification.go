package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NotificationsCollection is also referenced by the index migration
const NotificationsCollection = "mention_notifications"

type notificationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.NotificationRepository = &notificationRepository{}

func newNotificationRepository(client *firestore.Client) *notificationRepository {
	return &notificationRepository{
		client: client,
	}
}

type notificationDoc struct {
	ID                string    `firestore:"id"`
	MentionedUserID   string    `firestore:"mentioned_user_id"`
	MentionedByUserID string    `firestore:"mentioned_by_user_id"`
	ContentType       string    `firestore:"content_type"`
	ContentID         string    `firestore:"content_id"`
	Seen              bool      `firestore:"seen"`
	CreatedAt         time.Time `firestore:"created_at"`
}

func (r *notificationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, NotificationsCollection))
}

func (r *notificationRepository) toDoc(n *model.Notification) *notificationDoc {
	return &notificationDoc{
		ID:                string(n.ID),
		MentionedUserID:   string(n.MentionedUserID),
		MentionedByUserID: string(n.MentionedByUserID),
		ContentType:       n.ContentType.String(),
		ContentID:         n.ContentID,
		Seen:              n.Seen,
		CreatedAt:         n.CreatedAt,
	}
}

func (r *notificationRepository) fromDoc(doc *notificationDoc) *model.Notification {
	return &model.Notification{
		ID:                model.NotificationID(doc.ID),
		MentionedUserID:   model.UserID(doc.MentionedUserID),
		MentionedByUserID: model.UserID(doc.MentionedByUserID),
		ContentType:       types.ContentType(doc.ContentType),
		ContentID:         doc.ContentID,
		Seen:              doc.Seen,
		CreatedAt:         doc.CreatedAt,
	}
}

// wrapErr maps gRPC codes that mean "not provisioned" onto ErrNotificationStoreUnavailable.
// FailedPrecondition is what Firestore returns when the composite index was never migrated.
func wrapErr(err error, msg string, opts ...goerr.Option) error {
	switch status.Code(err) {
	case codes.FailedPrecondition, codes.PermissionDenied, codes.Unavailable, codes.Unimplemented:
		opts = append(opts, goerr.V("cause", err.Error()))
		return goerr.Wrap(interfaces.ErrNotificationStoreUnavailable, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}

func (r *notificationRepository) listQuery(userID model.UserID) firestore.Query {
	return r.collection().
		Where("mentioned_user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc)
}

// Probe runs the feed query shape once so a missing index is detected at startup
func (r *notificationRepository) Probe(ctx context.Context) error {
	iter := r.listQuery("__probe__").Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return wrapErr(err, "failed to probe notification collection")
	}
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid notification")
	}

	created := *n
	created.ID = n.Key().ID()
	created.Seen = false
	created.CreatedAt = time.Now().UTC()

	ref := r.collection().Doc(string(created.ID))
	if _, err := ref.Create(ctx, r.toDoc(&created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return r.get(ctx, ref)
		}
		return nil, wrapErr(err, "failed to create notification",
			goerr.V("notification_id", created.ID),
			goerr.V("content_id", created.ContentID))
	}

	return &created, nil
}

func (r *notificationRepository) get(ctx context.Context, ref *firestore.DocumentRef) (*model.Notification, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "failed to get notification", goerr.V("notification_id", ref.ID))
	}

	var d notificationDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal notification", goerr.V("docID", ref.ID))
	}
	return r.fromDoc(&d), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID model.UserID, limit int) ([]*model.Notification, error) {
	q := r.listQuery(userID)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Notification, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapErr(err, "failed to iterate notifications", goerr.V("user_id", userID))
		}

		var d notificationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notification", goerr.V("docID", doc.Ref.ID))
		}
		result = append(result, r.fromDoc(&d))
	}

	return result, nil
}

func (r *notificationRepository) MarkSeen(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	ref := r.collection().Doc(string(id))
	notFound := goerr.Wrap(interfaces.ErrNotificationNotFound, "notification not found",
		goerr.V("notification_id", id), goerr.V("user_id", userID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return notFound
			}
			return err
		}

		var d notificationDoc
		if err := snap.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal notification", goerr.V("docID", ref.ID))
		}
		if model.UserID(d.MentionedUserID) != userID {
			return notFound
		}
		if d.Seen {
			return nil
		}
		return tx.Update(ref, []firestore.Update{{Path: "seen", Value: true}})
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotificationNotFound) {
			return err
		}
		return wrapErr(err, "failed to mark notification seen", goerr.V("notification_id", id))
	}
	return nil
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID model.UserID) (int, error) {
	iter := r.collection().
		Where("mentioned_user_id", "==", string(userID)).
		Where("seen", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, wrapErr(err, "failed to iterate unseen notifications", goerr.V("user_id", userID))
		}
		refs = append(refs, doc.Ref)
	}

	if len(refs) == 0 {
		return 0, nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bulkWriter.Update(ref, []firestore.Update{{Path: "seen", Value: true}})
		if err != nil {
			return 0, goerr.Wrap(err, "failed to add Update operation to bulk writer")
		}
		jobs = append(jobs, job)
	}

	bulkWriter.Flush()

	changed := 0
	var firstErr error
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			// a document removed since the query is not a failure of the batch
			if status.Code(err) == codes.NotFound {
				continue
			}
			if firstErr == nil {
				firstErr = wrapErr(err, "failed to mark notification seen",
					goerr.V("user_id", userID), goerr.V("notification_id", refs[i].ID))
			}
			continue
		}
		changed++
	}

	if firstErr != nil {
		return changed, firstErr
	}
	return changed, nil
}
