package postgres

// QuotedNameForTest returns the quoted object name Migrate uses for name under prefix
func QuotedNameForTest(prefix, name string) string {
	p := &Postgres{tablePrefix: prefix}
	return p.table(name)
}

const (
	NotificationsTableForTest     = notificationsTable
	NotificationsFeedIndexForTest = notificationsFeedIndex
)
