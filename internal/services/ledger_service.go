package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rupeeready/internal/alerts"
	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/logger"
	"rupeeready/internal/models"
	"rupeeready/internal/pagination"
	"rupeeready/internal/profilestore"
	"rupeeready/internal/spendguard"
	"rupeeready/internal/summary"
)

// recentWindow is how many latest transactions feed the alert generator.
const recentWindow = 50

// LedgerService implements LedgerServicer. Recording a transaction is the
// only path that moves money between the safe balance and the tax vault
// besides the explicit vault operations.
type LedgerService struct {
	db           *gorm.DB
	profiles     *profilestore.Store
	guard        *spendguard.Client
	engine       *summary.Engine
	alerts       *alerts.Service
	taxRate      int64
	guardTimeout time.Duration
}

// NewLedgerService creates a LedgerService. guard may be nil when no
// spending-analysis service is configured; expenses then skip the pre-check.
func NewLedgerService(db *gorm.DB, profiles *profilestore.Store, guard *spendguard.Client, engine *summary.Engine, alertSvc *alerts.Service, taxRate int64, guardTimeout time.Duration) *LedgerService {
	return &LedgerService{
		db:           db,
		profiles:     profiles,
		guard:        guard,
		engine:       engine,
		alerts:       alertSvc,
		taxRate:      taxRate,
		guardTimeout: guardTimeout,
	}
}

// AddTransaction records an immutable transaction and applies its balance
// effects. Expenses go through the advisory pre-check first: an explicit
// BLOCKED verdict aborts the recording, but any failure of the check itself
// (timeout, refusal, non-200) lets the expense proceed. The check must never
// make the ledger unavailable.
func (s *LedgerService) AddTransaction(ctx context.Context, userID string, input TransactionInput) (*TransactionResult, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}

	if input.Type == models.TransactionTypeExpense && s.guard != nil {
		checkCtx, cancel := context.WithTimeout(ctx, s.guardTimeout)
		verdict, err := s.guard.Check(checkCtx, userID, input.Category, input.Amount)
		cancel()
		switch {
		case err != nil:
			logger.Get().Warnw("spending pre-check unavailable, proceeding",
				"user_id", userID, "error", err)
		case verdict.Blocked():
			if verdict.Message != "" {
				return nil, apperrors.WithMessage(apperrors.ErrSpendingBlocked, verdict.Message)
			}
			return nil, apperrors.ErrSpendingBlocked
		}
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}
	category := input.Category
	if category == "" {
		category = "other"
	}

	tx := &models.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    category,
		Description: input.Description,
		IsImpulse:   input.IsImpulse,
		OccurredAt:  occurredAt,
	}
	// The row insert and the balance update succeed or fail together; a
	// failed recording must leave no orphaned ledger row behind.
	var profile *models.Profile
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(tx).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		applied, err := s.profiles.WithTx(dbtx).ApplyTransaction(userID, input.Type, input.Amount, s.taxRate)
		if err != nil {
			return err
		}
		profile = applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	sum, alertList := s.recompute(userID, profile)
	return &TransactionResult{
		Transaction: tx,
		Profile:     profile,
		Summary:     sum,
		Alerts:      alertList,
	}, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *LedgerService) ListTransactions(userID string, page pagination.PageRequest) (pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return pagination.PageResponse[models.Transaction]{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error
	if err != nil {
		return pagination.PageResponse[models.Transaction]{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pagination.NewPageResponse(transactions, page.Page, page.PageSize, total), nil
}

// AddGoal creates a savings goal. Unless SkipRefresh is set, the refreshed
// goal list rides along in the response.
func (s *LedgerService) AddGoal(userID string, input GoalInput) (*models.Goal, []models.Goal, error) {
	if userID == "" {
		return nil, nil, apperrors.ErrNotLoggedIn
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Color:         input.Color,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if input.SkipRefresh {
		return goal, nil, nil
	}
	list, err := s.ListGoals(userID)
	if err != nil {
		return nil, nil, err
	}
	return goal, list, nil
}

// UpdateGoal applies a partial update to a goal the user owns and returns
// the updated goal with the refreshed list.
func (s *LedgerService) UpdateGoal(userID, goalID string, input GoalUpdateInput) (*models.Goal, []models.Goal, error) {
	if userID == "" {
		return nil, nil, apperrors.ErrNotLoggedIn
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.TargetAmount != nil {
		updates["target_amount"] = *input.TargetAmount
	}
	if input.CurrentAmount != nil {
		updates["current_amount"] = *input.CurrentAmount
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}

	if len(updates) > 0 {
		res := s.db.Model(&models.Goal{}).
			Where("id = ? AND user_id = ?", goalID, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, nil, apperrors.ErrGoalNotFound
		}
	}

	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrGoalNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	list, err := s.ListGoals(userID)
	if err != nil {
		return nil, nil, err
	}
	return &goal, list, nil
}

// ListGoals returns all goals for a user, oldest first.
func (s *LedgerService) ListGoals(userID string) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// MoveToVault shifts money from the safe balance into the tax vault.
func (s *LedgerService) MoveToVault(userID string, amount int64) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	profile, err := s.profiles.MoveToVault(userID, amount)
	if err != nil {
		return nil, err
	}
	s.recompute(userID, profile)
	return profile, nil
}

// ReleaseFromVault shifts money from the tax vault back to the safe balance.
func (s *LedgerService) ReleaseFromVault(userID string, amount int64) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	profile, err := s.profiles.ReleaseFromVault(userID, amount)
	if err != nil {
		return nil, err
	}
	s.recompute(userID, profile)
	return profile, nil
}

// PayTaxFromVault pays tax out of the vault; the money leaves the system.
func (s *LedgerService) PayTaxFromVault(userID string, amount int64) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	profile, err := s.profiles.PayTaxFromVault(userID, amount)
	if err != nil {
		return nil, err
	}
	s.recompute(userID, profile)
	return profile, nil
}

// RefreshAlerts regenerates the alert list from the current profile and
// transaction window on demand.
func (s *LedgerService) RefreshAlerts(userID string) ([]alerts.Alert, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	profile, err := s.profiles.Fetch(userID)
	if err != nil {
		return nil, err
	}
	_, list := s.recompute(userID, profile)
	return list, nil
}

// recompute rebuilds the derived views after any balance change. Alert
// regeneration failing to load the transaction window is logged, not fatal;
// derived views must never block a successful write.
func (s *LedgerService) recompute(userID string, profile *models.Profile) (summary.Summary, []alerts.Alert) {
	sum := s.engine.Compute(profile)

	var recent []models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(recentWindow).
		Find(&recent).Error
	if err != nil {
		logger.Get().Warnw("failed to load transactions for alert refresh",
			"user_id", userID, "error", err)
	}

	return sum, s.alerts.Refresh(userID, sum, recent)
}
