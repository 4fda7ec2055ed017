// Package service provides the business logic layer of the employee status service.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Schera-ole/empstatus/internal/audit"
	"github.com/Schera-ole/empstatus/internal/cache"
	"github.com/Schera-ole/empstatus/internal/engine"
	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
	models "github.com/Schera-ole/empstatus/internal/model"
	"github.com/Schera-ole/empstatus/internal/repository"
)

// MinSalaryRecords is the smallest number of salary rows a status is computed from.
const MinSalaryRecords = 3

// Recorder receives request outcomes and computed statuses, e.g. for metrics.
type Recorder interface {
	RecordOutcome(outcome string)
	RecordStatus(status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(string) {}
func (nopRecorder) RecordStatus(string)  {}

// StatusService looks up an employee, runs the metrics engine and caches the result.
type StatusService struct {
	// repository is the underlying data storage implementation
	repository repository.Repository

	cache    *cache.Cache[models.EmpStatusResponse]
	audit    audit.AuditLogger
	recorder Recorder
	now      func() time.Time
}

// NewStatusService creates a StatusService. A nil recorder disables outcome recording.
func NewStatusService(
	repo repository.Repository,
	responseCache *cache.Cache[models.EmpStatusResponse],
	auditLogger audit.AuditLogger,
	recorder Recorder,
) *StatusService {

	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &StatusService{
		repository: repo,
		cache:      responseCache,
		audit:      auditLogger,
		recorder:   recorder,
		now:        time.Now,
	}
}

// GetEmpStatus returns the status of the employee with the given national number.
//
// Unless bustCache is set a cached response is returned when present. The returned
// errors wrap ErrUserNotFound, ErrUserInactive or ErrInsufficientData for the
// corresponding business outcomes.
func (s *StatusService) GetEmpStatus(ctx context.Context, nationalNumber string, bustCache bool) (models.EmpStatusResponse, error) {

	national := strings.TrimSpace(nationalNumber)
	logCtx := map[string]any{"nationalNumber": national}
	key := cache.EmpStatusKey(national)

	if !bustCache {
		if cached, ok := s.cache.Get(key); ok {
			s.record(audit.LevelInfo, audit.MsgCacheHit, logCtx)
			return cached, nil
		}
	}

	user, err := s.repository.GetUserByNationalNumber(ctx, national)
	if err != nil {
		if errors.Is(err, internalerrors.ErrUserNotFound) {
			s.record(audit.LevelWarn, audit.MsgUserNotFound, logCtx)
			return models.EmpStatusResponse{}, err
		}
		s.record(audit.LevelError, audit.MsgLookupFailed, withField(logCtx, "error", err.Error()))
		return models.EmpStatusResponse{}, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive {
		s.record(audit.LevelWarn, audit.MsgUserInactive, logCtx)
		return models.EmpStatusResponse{}, internalerrors.ErrUserInactive
	}

	salaries, err := s.repository.GetSalariesForUser(ctx, user.ID)
	if err != nil {
		s.record(audit.LevelError, audit.MsgLookupFailed, withField(logCtx, "error", err.Error()))
		return models.EmpStatusResponse{}, fmt.Errorf("looking up salaries: %w", err)
	}
	if len(salaries) < MinSalaryRecords {
		s.record(audit.LevelWarn, audit.MsgInsufficientData, withField(logCtx, "count", len(salaries)))
		return models.EmpStatusResponse{}, fmt.Errorf("%w: %d salary rows", internalerrors.ErrInsufficientData, len(salaries))
	}

	observations := make([]engine.Observation, 0, len(salaries))
	for _, salary := range salaries {
		observations = append(observations, engine.Observation{Month: salary.Month, Amount: salary.Amount})
	}
	metrics, status, err := engine.Evaluate(observations)
	if err != nil {
		s.record(audit.LevelError, audit.MsgComputationFailure, withField(logCtx, "error", err.Error()))
		return models.EmpStatusResponse{}, fmt.Errorf("computing metrics: %w", err)
	}

	resp := models.EmpStatusResponse{
		EmployeeName:   user.Username,
		NationalNumber: user.NationalNumber,
		// both values are already quantized to two places
		HighestSalary: metrics.Highest.InexactFloat64(),
		AverageSalary: metrics.AverageAfterTax.InexactFloat64(),
		Status:        string(status),
		IsActive:      user.IsActive,
		LastUpdated:   s.now().UTC().Truncate(time.Second).Format(time.RFC3339),
	}
	s.cache.Set(key, resp)

	s.recorder.RecordStatus(string(status))
	logCtx["count"] = metrics.Count
	logCtx["status"] = string(status)
	s.record(audit.LevelInfo, audit.MsgSuccess, logCtx)
	return resp, nil
}

// Ping checks the repository connection.
func (s *StatusService) Ping(ctx context.Context) error {

	return s.repository.Ping(ctx)
}

func (s *StatusService) record(level, message string, context map[string]any) {
	s.recorder.RecordOutcome(message)
	s.audit.Log(level, message, context)
}

func withField(fields map[string]any, key string, value any) map[string]any {
	result := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		result[k] = v
	}
	result[key] = value
	return result
}
