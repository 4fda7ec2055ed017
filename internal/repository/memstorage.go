package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
	models "github.com/Schera-ole/empstatus/internal/model"
)

// MemStorage implements the Repository interface using in-memory storage.
type MemStorage struct {
	// mu provides thread-safe access to the storage maps
	mu sync.RWMutex

	// users stores users by national number
	users map[string]models.User

	// salaries stores salary records by user ID
	salaries map[int64][]models.Salary

	// logs stores written audit events in insertion order
	logs []models.AuditEvent

	nextID int64
}

// NewMemStorage creates a new in-memory storage instance.
func NewMemStorage() *MemStorage {

	return &MemStorage{
		users:    make(map[string]models.User),
		salaries: make(map[int64][]models.Salary),
	}
}

// AddUser stores a user, assigning an ID when it has none, and returns the stored user.
func (ms *MemStorage) AddUser(user models.User) models.User {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if user.ID == 0 {
		ms.nextID++
		user.ID = ms.nextID
	} else if user.ID > ms.nextID {
		ms.nextID = user.ID
	}
	ms.users[user.NationalNumber] = user
	return user
}

// AddSalaries appends salary records for the user.
func (ms *MemStorage) AddSalaries(userID int64, salaries ...models.Salary) {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, s := range salaries {
		s.UserID = userID
		ms.salaries[userID] = append(ms.salaries[userID], s)
	}
}

func (ms *MemStorage) GetUserByNationalNumber(ctx context.Context, nationalNumber string) (models.User, error) {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	user, ok := ms.users[nationalNumber]
	if !ok {
		return models.User{}, internalerrors.ErrUserNotFound
	}
	return user, nil
}

func (ms *MemStorage) GetSalariesForUser(ctx context.Context, userID int64) ([]models.Salary, error) {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]models.Salary, len(ms.salaries[userID]))
	copy(result, ms.salaries[userID])
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// WriteLog appends the event with the same length limits as the logs table.
func (ms *MemStorage) WriteLog(ctx context.Context, event models.AuditEvent) error {

	if len(event.Context) > 0 {
		data, err := encodeLogContext(event.Context)
		if err != nil {
			return err
		}
		if data == truncatedContext {
			event.Context = map[string]any{"truncated": true}
		}
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	event.Level = truncate(strings.ToUpper(event.Level), maxLevelLength)
	event.Message = truncate(event.Message, maxMessageLength)
	ms.logs = append(ms.logs, event)
	return nil
}

// Logs returns a copy of the written audit events.
func (ms *MemStorage) Logs() []models.AuditEvent {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]models.AuditEvent, len(ms.logs))
	copy(result, ms.logs)
	return result
}

func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}

func (ms *MemStorage) Close() error {
	return nil
}

// SeedDemoData loads the same demo employees as the seed migration.
func SeedDemoData(ms *MemStorage) {

	for _, d := range demoData {
		user := ms.AddUser(d.user)
		salaries := make([]models.Salary, 0, len(d.salaries))
		for _, s := range d.salaries {
			salaries = append(salaries, models.Salary{Year: s.year, Month: s.month, Amount: decimal.RequireFromString(s.amount)})
		}
		ms.AddSalaries(user.ID, salaries...)
	}
}

type demoSalary struct {
	year   int
	month  int
	amount string
}

var demoData = []struct {
	user     models.User
	salaries []demoSalary
}{
	{
		user: models.User{ID: 1, Username: "alice", NationalNumber: "NAT1001", Email: "alice@example.com", Phone: "0791000001", IsActive: true},
		salaries: []demoSalary{
			{2025, 1, "2100.00"}, {2025, 2, "2200.00"}, {2025, 3, "2300.00"},
			{2025, 4, "2150.00"}, {2025, 5, "2250.00"}, {2025, 6, "2400.00"},
		},
	},
	{
		user: models.User{ID: 2, Username: "bob", NationalNumber: "NAT1002", Email: "bob@example.com", Phone: "0791000002", IsActive: true},
		salaries: []demoSalary{
			{2025, 1, "1500.00"}, {2025, 2, "1500.00"}, {2025, 3, "1500.00"},
		},
	},
	{
		user: models.User{ID: 3, Username: "carol", NationalNumber: "NAT1003", Email: "carol@example.com", Phone: "0791000003", IsActive: false},
		salaries: []demoSalary{
			{2025, 1, "3000.00"}, {2025, 2, "3000.00"}, {2025, 3, "3000.00"},
		},
	},
	{
		user: models.User{ID: 5, Username: "eve", NationalNumber: "NAT1005", Email: "eve@example.com", Phone: "0791000005", IsActive: true},
		salaries: []demoSalary{
			{2025, 1, "2000.00"}, {2025, 2, "2000.00"}, {2025, 3, "2000.00"},
		},
	},
	{
		user: models.User{ID: 8, Username: "henry", NationalNumber: "NAT1008", Email: "henry@example.com", Phone: "0791000008", IsActive: true},
		salaries: []demoSalary{
			{2024, 10, "4000.00"}, {2024, 11, "4200.00"}, {2024, 12, "4500.00"},
		},
	},
	{
		user: models.User{ID: 12, Username: "liam", NationalNumber: "NAT1012", Email: "liam@example.com", Phone: "0791000012", IsActive: true},
		salaries: []demoSalary{
			{2025, 1, "1800.00"}, {2025, 2, "1850.00"},
		},
	},
}
