package models

import "time"

// Profile holds a user's financial state. Amounts are int64 paise.
//
// SafeBalance and TaxVault are only ever mutated as a pair when a transaction
// is recorded, or through the explicit vault operations on the profile store;
// no other path may alter them independently.
type Profile struct {
	Base
	UserID        string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	SafeBalance   int64  `gorm:"not null;default:0" json:"safe_balance"`
	TaxVault      int64  `gorm:"not null;default:0" json:"tax_vault"`
	TotalIncome   int64  `gorm:"not null;default:0" json:"total_income"`
	TotalExpenses int64  `gorm:"not null;default:0" json:"total_expenses"`

	NotificationsEnabled bool `gorm:"default:true" json:"notifications_enabled"`
	DarkMode             bool `gorm:"default:true" json:"dark_mode"`

	OnboardingCompleted bool       `gorm:"default:false" json:"onboarding_completed"`
	UserType            *string    `json:"user_type,omitempty"`
	MonthlyIncome       *int64     `json:"monthly_income,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}
