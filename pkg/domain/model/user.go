package model

import (
	"github.com/bugnest/bugnest/pkg/domain/types"
)

// UserID is the opaque stable identifier of a user profile
type UserID string

// UnknownDisplayName is shown for users with neither a nickname nor a full name
const UnknownDisplayName = "Unknown"

// User is a mentionable directory entry
type User struct {
	ID       UserID
	FullName string
	Nickname string
	Role     types.Role
}

// DisplayName resolves the name used in mention tokens: nickname, then full name, then "Unknown".
func (u *User) DisplayName() string {
	if u == nil {
		return UnknownDisplayName
	}
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.FullName != "" {
		return u.FullName
	}
	return UnknownDisplayName
}
