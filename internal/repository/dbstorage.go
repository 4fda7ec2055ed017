package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
	models "github.com/Schera-ole/empstatus/internal/model"
)

type DBStorage struct {
	db    *sql.DB
	retry RetryPolicy
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	dbConnect, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerrors.ErrDatabaseConnection, err)
	}
	return &DBStorage{db: dbConnect, retry: DefaultRetryPolicy}, nil
}

func (storage *DBStorage) Close() error {
	return storage.db.Close()
}

func (storage *DBStorage) GetUserByNationalNumber(ctx context.Context, nationalNumber string) (models.User, error) {
	var user models.User
	query := "SELECT id, username, national_number, email, COALESCE(phone, ''), is_active FROM users WHERE national_number = $1"
	err := storage.retry.Do(ctx, func() error {
		return storage.db.QueryRowContext(ctx, query, nationalNumber).Scan(
			&user.ID, &user.Username, &user.NationalNumber, &user.Email, &user.Phone, &user.IsActive,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, internalerrors.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: retrieving user: %v", internalerrors.ErrQueryExecution, err)
	}
	return user, nil
}

func (storage *DBStorage) GetSalariesForUser(ctx context.Context, userID int64) ([]models.Salary, error) {
	var salaries []models.Salary
	err := storage.retry.Do(ctx, func() error {
		var err error
		salaries, err = storage.querySalaries(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving salaries: %v", internalerrors.ErrQueryExecution, err)
	}
	return salaries, nil
}

func (storage *DBStorage) querySalaries(ctx context.Context, userID int64) ([]models.Salary, error) {
	query := "SELECT user_id, year, month, amount FROM salaries WHERE user_id = $1 ORDER BY year, month"
	rows, err := storage.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salaries []models.Salary
	for rows.Next() {
		var salary models.Salary
		// decimal.Decimal scans the NUMERIC text representation without going through float64
		if err := rows.Scan(&salary.UserID, &salary.Year, &salary.Month, &salary.Amount); err != nil {
			return nil, fmt.Errorf("error scanning salary: %w", err)
		}
		salaries = append(salaries, salary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over salaries: %w", err)
	}
	return salaries, nil
}

func (storage *DBStorage) WriteLog(ctx context.Context, event models.AuditEvent) error {
	var contextJSON sql.NullString
	if len(event.Context) > 0 {
		data, err := encodeLogContext(event.Context)
		if err != nil {
			return err
		}
		contextJSON = sql.NullString{String: data, Valid: true}
	}

	query := "INSERT INTO logs (created_at, level, message, context_json) VALUES ($1, $2, $3, $4)"
	_, err := storage.db.ExecContext(ctx, query,
		event.TS.UTC(),
		truncate(strings.ToUpper(event.Level), maxLevelLength),
		truncate(event.Message, maxMessageLength),
		contextJSON,
	)
	if err != nil {
		return fmt.Errorf("%w: saving log: %v", internalerrors.ErrQueryExecution, err)
	}
	return nil
}

func (storage *DBStorage) Ping(ctx context.Context) error {
	err := storage.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrDatabaseConnection, err)
	}
	return nil
}
