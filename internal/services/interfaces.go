// Package services contains the business logic of the API.
package services

import (
	"context"
	"time"

	"rupeeready/internal/alerts"
	"rupeeready/internal/models"
	"rupeeready/internal/pagination"
	"rupeeready/internal/summary"
)

// RegisterInput holds the fields for creating a password identity.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput holds password sign-in credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the synchronous response to any sign-in or registration.
// Profile may be nil when the profile could not be read in time; that is a
// displayable "no profile yet" state, not a failure.
type AuthResult struct {
	User      *models.User
	Profile   *models.Profile
	Session   *models.Session
	Token     string
	IsNewUser bool
}

// ProfileUpdateInput is a partial profile update. Nil fields are untouched.
// SkipRefresh returns the optimistically merged state instead of re-reading.
type ProfileUpdateInput struct {
	NotificationsEnabled *bool
	DarkMode             *bool
	OnboardingCompleted  *bool
	UserType             *string
	MonthlyIncome        *int64
	SkipRefresh          bool
}

// TransactionInput holds the fields for recording a transaction.
// Amount is in paise.
type TransactionInput struct {
	Type        models.TransactionType
	Amount      int64
	Category    string
	Description string
	IsImpulse   bool
	OccurredAt  *time.Time
}

// TransactionResult bundles everything a client needs after recording a
// transaction: the immutable record, the refreshed profile, and the derived
// views recomputed from it.
type TransactionResult struct {
	Transaction *models.Transaction
	Profile     *models.Profile
	Summary     summary.Summary
	Alerts      []alerts.Alert
}

// GoalInput holds the fields for creating a savings goal. Amounts are paise.
// SkipRefresh suppresses the goal-list re-read in the response.
type GoalInput struct {
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	Color         string
	SkipRefresh   bool
}

// GoalUpdateInput is a partial goal update. Nil fields are untouched.
type GoalUpdateInput struct {
	Name          *string
	TargetAmount  *int64
	CurrentAmount *int64
	Color         *string
}

// SessionServicer manages identities, sessions, and profile access.
type SessionServicer interface {
	Register(input RegisterInput) (*AuthResult, error)
	Login(input LoginInput) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	Logout(sessionID string) error
	ValidateAndTouch(sessionID string) error
	GetProfile(userID string) (*models.Profile, error)
	UpdateProfile(userID string, input ProfileUpdateInput) (*models.Profile, error)
}

// LedgerServicer records transactions and manages goals and vault moves.
type LedgerServicer interface {
	AddTransaction(ctx context.Context, userID string, input TransactionInput) (*TransactionResult, error)
	ListTransactions(userID string, page pagination.PageRequest) (pagination.PageResponse[models.Transaction], error)
	AddGoal(userID string, input GoalInput) (*models.Goal, []models.Goal, error)
	UpdateGoal(userID, goalID string, input GoalUpdateInput) (*models.Goal, []models.Goal, error)
	ListGoals(userID string) ([]models.Goal, error)
	RefreshAlerts(userID string) ([]alerts.Alert, error)
	MoveToVault(userID string, amount int64) (*models.Profile, error)
	ReleaseFromVault(userID string, amount int64) (*models.Profile, error)
	PayTaxFromVault(userID string, amount int64) (*models.Profile, error)
}
