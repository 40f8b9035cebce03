package interfaces

import (
	"context"

	"github.com/bugnest/bugnest/pkg/domain/model"
)

// UserRepository stores the user profiles that make up the mention directory.
//
// The directory is replaced as a whole by the sync worker (DeleteAll then SaveMany);
// there is no single-user write.
type UserRepository interface {
	// GetAll retrieves all user profiles. Order is unspecified.
	GetAll(ctx context.Context) ([]*model.User, error)

	// SaveMany upserts users
	SaveMany(ctx context.Context, users []*model.User) error

	// DeleteAll removes every user profile
	DeleteAll(ctx context.Context) error
}
