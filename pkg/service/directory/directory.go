package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/mention"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrDirectoryUnavailable is returned by Cache.Load when the source could not be read.
// Suggestions degrade to no candidates; typing mentions still works.
var ErrDirectoryUnavailable = errors.New("user directory unavailable")

// Source lists the users eligible to be mentioned
type Source interface {
	ListActiveUsers(ctx context.Context) ([]*model.User, error)
}

// Cache holds the mention directory for a session. It is loaded once and read-only afterwards,
// so any number of fields can read it concurrently.
type Cache struct {
	source Source

	once   sync.Once
	loaded atomic.Bool
	users  []*model.User
	byID   map[model.UserID]*model.User
	err    error
}

// New creates a Cache reading from source. Nothing is fetched until Load.
func New(source Source) *Cache {
	return &Cache{source: source}
}

// Load fetches the directory from the source exactly once. Subsequent calls return the
// result of the first one.
func (c *Cache) Load(ctx context.Context) error {
	c.once.Do(func() {
		defer c.loaded.Store(true)

		users, err := c.source.ListActiveUsers(ctx)
		if err != nil {
			c.err = goerr.Wrap(ErrDirectoryUnavailable, "failed to load user directory", goerr.V("cause", err.Error()))
			logging.From(ctx).Warn("user directory unavailable, suggestions disabled", "error", err.Error())
			return
		}

		c.users = make([]*model.User, 0, len(users))
		c.byID = make(map[model.UserID]*model.User, len(users))
		for _, u := range users {
			if u == nil || u.ID == "" {
				continue
			}
			if _, dup := c.byID[u.ID]; dup {
				continue
			}
			uCopy := *u
			uCopy.Role = uCopy.Role.Normalize()
			c.users = append(c.users, &uCopy)
			c.byID[uCopy.ID] = &uCopy
		}

		logging.From(ctx).Info("user directory loaded", "count", len(c.users))
	})

	return c.err
}

// Available reports whether Load completed successfully
func (c *Cache) Available() bool {
	return c.loaded.Load() && c.err == nil
}

// Users returns the directory in source order. Empty when not loaded or unavailable.
// The slice is a fresh copy; the users themselves are shared and must not be modified.
func (c *Cache) Users() []*model.User {
	if !c.Available() {
		return []*model.User{}
	}
	result := make([]*model.User, len(c.users))
	copy(result, c.users)
	return result
}

// Get looks up a user by ID
func (c *Cache) Get(id model.UserID) (*model.User, bool) {
	if !c.Available() {
		return nil, false
	}
	u, ok := c.byID[id]
	return u, ok
}

// Candidates returns the directory as display name to user ID pairs for mention.ToRawText
func (c *Cache) Candidates() []mention.Candidate {
	users := c.Users()
	result := make([]mention.Candidate, len(users))
	for i, u := range users {
		result[i] = mention.Candidate{DisplayName: u.DisplayName(), UserID: string(u.ID)}
	}
	return result
}
