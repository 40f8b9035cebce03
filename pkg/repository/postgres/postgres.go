package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

const (
	usersTable         = "user_profiles"
	notificationsTable = "mention_notifications"

	notificationsFeedIndex = "mention_notifications_feed_idx"

	// SQLSTATE for undefined_table
	codeUndefinedTable = "42P01"
)

// Postgres stores the directory and notifications in a relational database
type Postgres struct {
	pool         *pgxpool.Pool
	tablePrefix  string
	user         *userRepository
	notification *notificationRepository
}

var _ interfaces.Repository = &Postgres{}

type Option func(*Postgres)

// WithTablePrefix prefixes every table name, e.g. for isolated test runs
func WithTablePrefix(prefix string) Option {
	return func(p *Postgres) {
		p.tablePrefix = prefix
	}
}

// New connects a pool to databaseURL. Tables are not created; see Migrate.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}

	p := &Postgres{pool: pool}
	for _, opt := range opts {
		opt(p)
	}

	p.user = &userRepository{pool: pool, table: p.table(usersTable)}
	p.notification = &notificationRepository{pool: pool, table: p.table(notificationsTable)}

	return p, nil
}

// table returns the quoted, prefixed name of a table or index
func (p *Postgres) table(name string) string {
	return pgx.Identifier{p.prefixed(name)}.Sanitize()
}

func (p *Postgres) prefixed(name string) string {
	if p.tablePrefix != "" {
		return p.tablePrefix + "_" + name
	}
	return name
}

// Migrate creates the tables and indexes if they do not exist yet
func (p *Postgres) Migrate(ctx context.Context) error {
	users := p.table(usersTable)
	notifications := p.table(notificationsTable)
	index := p.table(notificationsFeedIndex)

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			nickname  TEXT NOT NULL DEFAULT '',
			role      TEXT NOT NULL DEFAULT 'user'
		)`, users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                   TEXT PRIMARY KEY,
			mentioned_user_id    TEXT NOT NULL,
			mentioned_by_user_id TEXT NOT NULL,
			content_type         TEXT NOT NULL,
			content_id           TEXT NOT NULL,
			seen                 BOOLEAN NOT NULL DEFAULT FALSE,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (mentioned_user_id <> mentioned_by_user_id)
		)`, notifications),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (mentioned_user_id, created_at DESC)`, index, notifications),
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema", goerr.V("statement", stmt))
		}
	}
	return nil
}

func (p *Postgres) User() interfaces.UserRepository {
	return p.user
}

func (p *Postgres) Notification() interfaces.NotificationRepository {
	return p.notification
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// isUnavailable reports errors that mean the table is missing or the server cannot be reached
func isUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUndefinedTable
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

func wrapErr(err error, msg string, opts ...goerr.Option) error {
	if isUnavailable(err) {
		opts = append(opts, goerr.V("cause", err.Error()))
		return goerr.Wrap(interfaces.ErrNotificationStoreUnavailable, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}
