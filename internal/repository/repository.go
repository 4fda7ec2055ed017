// Package repository provides access to users, salaries and the audit log table.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	models "github.com/Schera-ole/empstatus/internal/model"
)

// Repository is the storage used by the status service.
type Repository interface {
	// GetUserByNationalNumber returns errors.ErrUserNotFound when no user matches.
	GetUserByNationalNumber(ctx context.Context, nationalNumber string) (models.User, error)
	GetSalariesForUser(ctx context.Context, userID int64) ([]models.Salary, error)
	WriteLog(ctx context.Context, event models.AuditEvent) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	maxLevelLength   = 10
	maxMessageLength = 255
	maxContextLength = 2000
)

// truncatedContext replaces a log context whose JSON exceeds maxContextLength.
const truncatedContext = `{"truncated":true}`

// truncate keeps at most n characters of s. The limits mirror VARCHAR columns,
// which count characters rather than bytes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// encodeLogContext marshals an audit context for the context_json column.
// Oversized contexts are stored as truncatedContext so the column always holds valid JSON.
func encodeLogContext(fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("error marshalling log context: %w", err)
	}
	if utf8.RuneCount(data) > maxContextLength {
		return truncatedContext, nil
	}
	return string(data), nil
}
