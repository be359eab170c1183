package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction. Records are immutable once
// written: the ledger never updates or deletes them.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    string          `gorm:"not null;default:'other'" json:"category"`
	Description string          `json:"description"`
	IsImpulse   bool            `gorm:"default:false" json:"is_impulse"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
}
