package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// UsersFile is a static user directory seed
type UsersFile struct {
	Users []UserEntry `toml:"user"`
}

// UserEntry is one [[user]] table of a users file
type UserEntry struct {
	ID       string `toml:"id"`
	FullName string `toml:"full_name"`
	Nickname string `toml:"nickname"`
	Role     string `toml:"role"`
}

// Validate checks if the UserEntry is valid
func (u *UserEntry) Validate() error {
	if u.ID == "" {
		return goerr.Wrap(ErrMissingUserID, "invalid user entry")
	}
	if u.Role != "" && !types.Role(u.Role).IsValid() {
		return goerr.Wrap(ErrInvalidRole, "invalid user entry",
			goerr.V(UserIDKey, u.ID),
			goerr.V(RoleKey, u.Role))
	}
	return nil
}

// Validate checks entries and rejects duplicated IDs
func (f *UsersFile) Validate() error {
	seen := make(map[string]bool, len(f.Users))
	for i := range f.Users {
		entry := &f.Users[i]
		if err := entry.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user", goerr.V(UserIndexKey, i))
		}
		if seen[entry.ID] {
			return goerr.Wrap(ErrDuplicateUserID, "invalid user",
				goerr.V(UserIDKey, entry.ID),
				goerr.V(UserIndexKey, i))
		}
		seen[entry.ID] = true
	}
	return nil
}

// ToModel converts the file entries to directory users
func (f *UsersFile) ToModel() []*model.User {
	users := make([]*model.User, len(f.Users))
	for i, entry := range f.Users {
		users[i] = &model.User{
			ID:       model.UserID(entry.ID),
			FullName: entry.FullName,
			Nickname: entry.Nickname,
			Role:     types.Role(entry.Role).Normalize(),
		}
	}
	return users
}

// LoadUsersFile loads a user directory seed from a TOML file
func LoadUsersFile(path string) ([]*model.User, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "users file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read users file", goerr.V(ConfigPathKey, path))
	}

	var file UsersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML users file",
			goerr.V(ConfigPathKey, path),
			goerr.V("cause", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "users file validation failed", goerr.V(ConfigPathKey, path))
	}

	return file.ToModel(), nil
}
