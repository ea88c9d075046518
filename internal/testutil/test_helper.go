package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the full schema.
// It is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// A single connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser builds an alumnus with default values
func (h *TestHelper) CreateTestUser(id uint, firstName, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if email == "" {
		email = "alumnus" + uuid.NewString()[:8] + "@example.com"
	}

	return &models.User{
		ID:          id,
		Email:       email,
		FirstName:   firstName,
		Company:     "Acme Corp",
		Batch:       "2015",
		Designation: "Engineer",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// SeedUsers inserts one alumnus per id through repo and fails the test on error.
func (h *TestHelper) SeedUsers(repo repository.UserRepositoryInterface, ids ...uint) []*models.User {
	h.t.Helper()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u := h.CreateTestUser(id, "", "")
		if err := repo.Create(context.Background(), u); err != nil {
			h.t.Fatalf("seed user %d: %v", id, err)
		}
		users = append(users, u)
	}
	return users
}

// CreateTestMessage builds an unread message with default values
func (h *TestHelper) CreateTestMessage(senderID, recipientID uint, content string, createdAt time.Time) *models.Message {
	if content == "" {
		content = "Test message"
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &models.Message{
		ClientID:    uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   createdAt,
	}
}

// Clock is a deterministic time source that advances one second per call.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

func NewClock() *Clock {
	return &Clock{current: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}
