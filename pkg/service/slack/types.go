package slack

import (
	"context"
)

// Service provides the Slack workspace directory
type Service interface {
	// ListUsers retrieves all non-deleted, non-bot members of the workspace
	ListUsers(ctx context.Context) ([]*User, error)
}

// User represents a Slack member
type User struct {
	ID          string
	Name        string
	RealName    string
	DisplayName string
	Email       string
	IsAdmin     bool
	IsOwner     bool
}
