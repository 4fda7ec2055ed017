package errors

import "errors"

var (
	// Lookup errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user is not active")
	ErrInsufficientData = errors.New("insufficient salary data")

	// Request errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrQueryExecution     = errors.New("query execution failed")

	// Configuration errors
	ErrMissingAPIToken = errors.New("API token is not configured")
)
