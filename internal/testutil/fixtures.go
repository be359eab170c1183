package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rupeeready/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Provider: models.AuthProviderPassword,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProfile creates a zeroed profile for the given user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string) *models.Profile {
	t.Helper()
	return CreateTestProfileWithBalances(t, db, userID, 0, 0)
}

// CreateTestProfileWithBalances creates a profile with the given safe balance
// and tax vault (in paise).
func CreateTestProfileWithBalances(t *testing.T, db *gorm.DB, userID string, safeBalance, taxVault int64) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:               userID,
		SafeBalance:          safeBalance,
		TaxVault:             taxVault,
		NotificationsEnabled: true,
		DarkMode:             true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestSession creates a session expiring after the given timeout.
func CreateTestSession(t *testing.T, db *gorm.DB, userID string, timeout time.Duration) *models.Session {
	t.Helper()

	now := time.Now()
	session := &models.Session{
		UserID:         userID,
		ExpiresAt:      now.Add(timeout),
		LastActivityAt: now,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}

// CreateTestTransaction creates a transaction of the given type and amount (in paise).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Type:       txType,
		Amount:     amount,
		Category:   "other",
		OccurredAt: time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestImpulseExpense creates an expense flagged as an impulse purchase.
func CreateTestImpulseExpense(t *testing.T, db *gorm.DB, userID string, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Type:       models.TransactionTypeExpense,
		Amount:     amount,
		Category:   "shopping",
		IsImpulse:  true,
		OccurredAt: time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test impulse expense: %v", err)
	}
	return tx
}

// CreateTestGoal creates a savings goal with the given target (in paise).
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
		Color:        "#4ade80",
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
