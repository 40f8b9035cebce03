package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Argument errors
	ErrInvalidContentType = errors.New("invalid content type")
	ErrContentIDRequired  = errors.New("content ID is required")
	ErrUserIDRequired     = errors.New("user ID is required")
)

// Context keys for error values
const (
	UserIDKey         = "user_id"
	ContentTypeKey    = "content_type"
	ContentIDKey      = "content_id"
	NotificationIDKey = "notification_id"
)
