package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
	models "github.com/Schera-ole/empstatus/internal/model"
)

func TestNewMemStorage(t *testing.T) {
	storage := NewMemStorage()
	assert.NotNil(t, storage)
	assert.NotNil(t, storage.users)
	assert.NotNil(t, storage.salaries)
	assert.Empty(t, storage.Logs())
}

func TestMemStorage_AddAndGetUser(t *testing.T) {
	storage := NewMemStorage()
	ctx := context.Background()

	first := storage.AddUser(models.User{Username: "a", NationalNumber: "N1", IsActive: true})
	second := storage.AddUser(models.User{Username: "b", NationalNumber: "N2"})
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	user, err := storage.GetUserByNationalNumber(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, first, user)

	_, err = storage.GetUserByNationalNumber(ctx, "missing")
	assert.ErrorIs(t, err, internalerrors.ErrUserNotFound)
}

func TestMemStorage_GetSalariesForUser(t *testing.T) {
	storage := NewMemStorage()
	ctx := context.Background()
	user := storage.AddUser(models.User{NationalNumber: "N1"})

	storage.AddSalaries(user.ID,
		models.Salary{Year: 2025, Month: 2, Amount: decimal.NewFromInt(200)},
		models.Salary{Year: 2024, Month: 12, Amount: decimal.NewFromInt(100)},
		models.Salary{Year: 2025, Month: 1, Amount: decimal.NewFromInt(150)},
	)

	salaries, err := storage.GetSalariesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, salaries, 3)
	assert.Equal(t, 12, salaries[0].Month)
	assert.Equal(t, 1, salaries[1].Month)
	assert.Equal(t, 2, salaries[2].Month)
	for _, s := range salaries {
		assert.Equal(t, user.ID, s.UserID)
	}

	// returned slice is a copy
	salaries[0].Month = 99
	again, err := storage.GetSalariesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, again[0].Month)

	none, err := storage.GetSalariesForUser(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemStorage_WriteLog(t *testing.T) {
	storage := NewMemStorage()
	ctx := context.Background()

	err := storage.WriteLog(ctx, models.AuditEvent{
		TS:      time.Now(),
		Level:   "warning-very-long",
		Message: strings.Repeat("m", 300),
		Context: map[string]any{"nationalNumber": "N1"},
	})
	require.NoError(t, err)

	logs := storage.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "WARNING-VE", logs[0].Level)
	assert.Len(t, logs[0].Message, 255)
	assert.Equal(t, "N1", logs[0].Context["nationalNumber"])
}

func TestSeedDemoData(t *testing.T) {
	storage := NewMemStorage()
	SeedDemoData(storage)
	ctx := context.Background()

	user, err := storage.GetUserByNationalNumber(ctx, "NAT1001")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	salaries, err := storage.GetSalariesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(salaries), 3)

	inactive, err := storage.GetUserByNationalNumber(ctx, "NAT1003")
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	short, err := storage.GetUserByNationalNumber(ctx, "NAT1012")
	require.NoError(t, err)
	salaries, err = storage.GetSalariesForUser(ctx, short.ID)
	require.NoError(t, err)
	assert.Len(t, salaries, 2)

	// new users do not collide with seeded IDs
	added := storage.AddUser(models.User{NationalNumber: "NEW"})
	assert.Greater(t, added.ID, int64(12))
}
