package models

// Goal represents a savings goal. Amounts are int64 paise.
type Goal struct {
	Base
	UserID        string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string `gorm:"not null" json:"name"`
	TargetAmount  int64  `gorm:"not null" json:"target_amount"`
	CurrentAmount int64  `gorm:"not null;default:0" json:"current_amount"`
	Color         string `json:"color"`
}

// Complete reports whether the goal has reached its target.
func (g *Goal) Complete() bool {
	return g.CurrentAmount >= g.TargetAmount
}
