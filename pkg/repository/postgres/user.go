package postgres

import (
	"context"
	"fmt"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	pool  *pgxpool.Pool
	table string
}

var _ interfaces.UserRepository = &userRepository{}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id, full_name, nickname, role FROM %s`, r.table))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user profiles")
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var (
			id, fullName, nickname, role string
		)
		if err := rows.Scan(&id, &fullName, &nickname, &role); err != nil {
			return nil, goerr.Wrap(err, "failed to scan user profile")
		}
		users = append(users, &model.User{
			ID:       model.UserID(id),
			FullName: fullName,
			Nickname: nickname,
			Role:     types.Role(role).Normalize(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate user profiles")
	}

	return users, nil
}

func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, full_name, nickname, role) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, nickname = EXCLUDED.nickname, role = EXCLUDED.role`, r.table)

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(query, string(u.ID), u.FullName, u.Nickname, u.Role.Normalize().String())
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return goerr.Wrap(err, "failed to save user profiles", goerr.V("count", len(users)))
	}
	return nil
}

func (r *userRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, r.table)); err != nil {
		return goerr.Wrap(err, "failed to delete user profiles")
	}
	return nil
}
