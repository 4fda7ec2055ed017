// Package models defines the data structures used throughout the employee status service.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an employee record.
type User struct {
	ID             int64
	Username       string
	NationalNumber string
	Email          string
	Phone          string
	IsActive       bool
}

// Salary is one monthly salary record of a user.
type Salary struct {
	UserID int64
	Year   int
	Month  int
	Amount decimal.Decimal
}

// EmpStatusRequest is the body of POST /api/GetEmpStatus.
type EmpStatusRequest struct {
	NationalNumber string `json:"NationalNumber"`
}

// EmpStatusResponse is the canonical response of POST /api/GetEmpStatus.
type EmpStatusResponse struct {
	// EmployeeName is the username of the employee
	EmployeeName string `json:"EmployeeName"`

	// NationalNumber identifies the employee
	NationalNumber string `json:"NationalNumber"`

	// HighestSalary is the highest month-adjusted salary
	HighestSalary float64 `json:"HighestSalary"`

	// AverageSalary is the tax-adjusted average salary
	AverageSalary float64 `json:"AverageSalary"`

	// Status is GREEN, ORANGE or RED
	Status string `json:"Status"`

	IsActive bool `json:"IsActive"`

	// LastUpdated is the UTC computation time in RFC 3339 format with a Z suffix
	LastUpdated string `json:"LastUpdated"`
}

// ErrorResponse is returned for every non-2xx outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuditEvent is a structured audit record of a request outcome.
type AuditEvent struct {
	// ID is a unique event identifier
	ID string `json:"id"`

	// TS is the event time
	TS time.Time `json:"ts"`

	// Level is the severity, e.g. INFO or WARN
	Level string `json:"level"`

	// Message is the outcome category, e.g. success or user_not_found
	Message string `json:"message"`

	// Context carries request details such as the national number
	Context map[string]any `json:"context,omitempty"`
}
