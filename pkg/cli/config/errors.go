package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrInvalidBackend     = goerr.New("invalid repository backend")
	ErrMissingUserID      = goerr.New("user id is required")
	ErrDuplicateUserID    = goerr.New("duplicate user id")
	ErrInvalidRole        = goerr.New("invalid role")
	ErrMissingProjectID   = goerr.New("firestore-project-id is required when using firestore backend")
	ErrMissingDatabaseURL = goerr.New("postgres-url is required when using postgres backend")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
	UserIDKey     = "user_id"
	UserIndexKey  = "user_index"
	RoleKey       = "role"
	LogLevelKey   = "log_level"
	LogFormatKey  = "log_format"
)
