package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Notification() NotificationRepository

	Close() error
}
