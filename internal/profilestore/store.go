// Package profilestore is the single writer for Profile records. It absorbs
// replication lag on reads with a bounded retry and applies balance changes
// as server-side atomic increments so concurrent writers cannot lose updates.
package profilestore

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/logger"
	"rupeeready/internal/models"
	"rupeeready/internal/money"
)

// Store mediates all access to Profile records.
type Store struct {
	db      *gorm.DB
	retries int
	backoff time.Duration
}

// New creates a Store with the given fetch retry policy. A fetch that hits
// "not found" retries up to retries times, sleeping backoff between attempts.
func New(db *gorm.DB, retries int, backoff time.Duration) *Store {
	return &Store{db: db, retries: retries, backoff: backoff}
}

// WithTx returns a view of the store bound to the given database handle,
// so callers can run store operations inside their own transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx, retries: s.retries, backoff: s.backoff}
}

// Create inserts a zeroed profile for the given user.
func (s *Store) Create(userID string) (*models.Profile, error) {
	profile := &models.Profile{UserID: userID}
	if err := s.db.Create(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// Fetch loads the profile for a user. A profile that is not yet visible
// (e.g. freshly created and not replicated) is retried with a fixed backoff;
// exhausting the retries returns (nil, nil): "no profile yet" is a valid,
// displayable state, not an error.
func (s *Store) Fetch(userID string) (*models.Profile, error) {
	for attempt := 0; ; attempt++ {
		profile, err := s.fetchRow(userID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, err
		}
		if attempt >= s.retries {
			logger.Get().Warnw("profile not found after retries",
				"user_id", userID,
				"attempts", attempt+1,
			)
			return nil, nil
		}
		time.Sleep(s.backoff)
	}
}

// Update applies a partial update to the profile.
func (s *Store) Update(userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// ApplyTransaction applies the tax-reservation rule for a transaction as
// atomic increments on the store side. For income, taxRate percent goes to
// the vault and the remainder to the safe balance; for expenses the full
// amount leaves the safe balance. Returns the refreshed profile.
func (s *Store) ApplyTransaction(userID string, txType models.TransactionType, amount, taxRate int64) (*models.Profile, error) {
	var updates map[string]interface{}
	switch txType {
	case models.TransactionTypeIncome:
		tax, safe := money.SplitPercent(amount, taxRate)
		updates = map[string]interface{}{
			"safe_balance": gorm.Expr("safe_balance + ?", safe),
			"tax_vault":    gorm.Expr("tax_vault + ?", tax),
			"total_income": gorm.Expr("total_income + ?", amount),
		}
	case models.TransactionTypeExpense:
		updates = map[string]interface{}{
			"safe_balance":   gorm.Expr("safe_balance - ?", amount),
			"total_expenses": gorm.Expr("total_expenses + ?", amount),
		}
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if err := s.Update(userID, updates); err != nil {
		return nil, err
	}
	return s.fetchRow(userID)
}

// MoveToVault shifts amount from the safe balance into the tax vault,
// conserving safe_balance + tax_vault. The guard is part of the update so a
// racing withdrawal cannot drive the safe balance negative.
func (s *Store) MoveToVault(userID string, amount int64) (*models.Profile, error) {
	return s.shift(userID, amount, "safe_balance", "tax_vault", apperrors.ErrInsufficientSafeBalance)
}

// ReleaseFromVault shifts amount from the tax vault back into the safe
// balance, conserving the pair sum.
func (s *Store) ReleaseFromVault(userID string, amount int64) (*models.Profile, error) {
	return s.shift(userID, amount, "tax_vault", "safe_balance", apperrors.ErrInsufficientVault)
}

// PayTaxFromVault removes amount from the tax vault for an external tax
// payment. Money leaves the system, so the pair sum shrinks; this is the only
// sanctioned path that changes it outside transaction recording.
func (s *Store) PayTaxFromVault(userID string, amount int64) (*models.Profile, error) {
	res := s.db.Model(&models.Profile{}).
		Where("user_id = ? AND tax_vault >= ?", userID, amount).
		Update("tax_vault", gorm.Expr("tax_vault - ?", amount))
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.fetchRow(userID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrInsufficientVault
	}
	return s.fetchRow(userID)
}

func (s *Store) shift(userID string, amount int64, from, to string, insufficient *apperrors.AppError) (*models.Profile, error) {
	res := s.db.Model(&models.Profile{}).
		Where("user_id = ? AND "+from+" >= ?", userID, amount).
		Updates(map[string]interface{}{
			from: gorm.Expr(from+" - ?", amount),
			to:   gorm.Expr(to+" + ?", amount),
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.fetchRow(userID); err != nil {
			return nil, err
		}
		return nil, insufficient
	}
	return s.fetchRow(userID)
}

// fetchRow reads the profile exactly once, without retry.
func (s *Store) fetchRow(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// StampLastLogin records the login timestamp without blocking the caller.
// Failures are logged, never surfaced.
func (s *Store) StampLastLogin(userID string) {
	db := s.db
	go func() {
		err := db.Model(&models.Profile{}).
			Where("user_id = ?", userID).
			Update("last_login_at", time.Now()).Error
		if err != nil {
			logger.Get().Warnw("failed to stamp last login", "user_id", userID, "error", err)
		}
	}()
}
