package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, teamID string) *Slack {
	return &Slack{
		botToken: botToken,
		teamID:   teamID,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, postgresURL string) *Repository {
	return &Repository{
		backend:     backend,
		projectID:   projectID,
		postgresURL: postgresURL,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}
