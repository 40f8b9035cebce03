package usecase

// MaxConcurrentWrites is exported for testing
const MaxConcurrentWrites = maxConcurrentWrites
