package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type notificationRepository struct {
	pool  *pgxpool.Pool
	table string
}

var _ interfaces.NotificationRepository = &notificationRepository{}

const notificationColumns = `id, mentioned_user_id, mentioned_by_user_id, content_type, content_id, seen, created_at`

func (r *notificationRepository) Probe(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, fmt.Sprintf(`SELECT 1 FROM %s LIMIT 0`, r.table)); err != nil {
		return wrapErr(err, "failed to probe notification table")
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

	query := fmt.Sprintf(`INSERT INTO %s (id, mentioned_user_id, mentioned_by_user_id, content_type, content_id)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING RETURNING created_at`, r.table)

	err := r.pool.QueryRow(ctx, query,
		string(created.ID),
		string(created.MentionedUserID),
		string(created.MentionedByUserID),
		created.ContentType.String(),
		created.ContentID,
	).Scan(&created.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.get(ctx, created.ID)
	}
	if err != nil {
		return nil, wrapErr(err, "failed to insert notification",
			goerr.V("notification_id", created.ID),
			goerr.V("content_id", created.ContentID))
	}

	return &created, nil
}

func (r *notificationRepository) get(ctx context.Context, id model.NotificationID) (*model.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, notificationColumns, r.table)
	n, err := scanNotification(r.pool.QueryRow(ctx, query, string(id)))
	if err != nil {
		return nil, wrapErr(err, "failed to get notification", goerr.V("notification_id", id))
	}
	return n, nil
}

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var (
		id, mentioned, mentionedBy, contentType, contentID string
		seen                                               bool
		createdAt                                          time.Time
	)
	if err := row.Scan(&id, &mentioned, &mentionedBy, &contentType, &contentID, &seen, &createdAt); err != nil {
		return nil, err
	}
	return &model.Notification{
		ID:                model.NotificationID(id),
		MentionedUserID:   model.UserID(mentioned),
		MentionedByUserID: model.UserID(mentionedBy),
		ContentType:       types.ContentType(contentType),
		ContentID:         contentID,
		Seen:              seen,
		CreatedAt:         createdAt,
	}, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID model.UserID, limit int) ([]*model.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE mentioned_user_id = $1 ORDER BY created_at DESC, id DESC`, notificationColumns, r.table)
	args := []any{string(userID)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err, "failed to query notifications", goerr.V("user_id", userID))
	}
	defer rows.Close()

	result := make([]*model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan notification")
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "failed to iterate notifications", goerr.V("user_id", userID))
	}

	return result, nil
}

func (r *notificationRepository) MarkSeen(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET seen = TRUE WHERE id = $1 AND mentioned_user_id = $2`, r.table),
		string(id), string(userID))
	if err != nil {
		return wrapErr(err, "failed to mark notification seen", goerr.V("notification_id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(interfaces.ErrNotificationNotFound, "notification not found",
			goerr.V("notification_id", id), goerr.V("user_id", userID))
	}
	return nil
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID model.UserID) (int, error) {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET seen = TRUE WHERE mentioned_user_id = $1 AND seen = FALSE`, r.table),
		string(userID))
	if err != nil {
		return 0, wrapErr(err, "failed to mark notifications seen", goerr.V("user_id", userID))
	}
	return int(tag.RowsAffected()), nil
}
