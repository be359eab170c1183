// Package alerts derives transient advisory alerts from the current summary
// and recent transactions. Alerts are regenerated wholesale on every refresh
// and never persisted; dismissal only edits the current in-memory list, so a
// dismissed alert reappears on the next refresh while its condition holds.
package alerts

import (
	"fmt"

	"rupeeready/internal/models"
	"rupeeready/internal/money"
	"rupeeready/internal/summary"
)

// Type categorizes an alert for the presentation layer.
type Type string

const (
	TypeBill     Type = "bill"
	TypeSecurity Type = "security"
	TypeImpulse  Type = "impulse"
)

// Stable per-condition alert IDs so the presentation layer can key on them.
const (
	IDLowBalance    = "low-balance"
	IDImpulse       = "impulse-warning"
	IDUpcomingBills = "upcoming-bills"
)

// Alert is a derived advisory message. Never persisted.
type Alert struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ActionLabel string `json:"action_label"`
	Character   string `json:"character,omitempty"`
}

// Generator derives the alert list for one refresh cycle.
type Generator struct {
	lowBalanceThreshold int64
}

// NewGenerator creates a Generator with the given low-balance threshold in paise.
func NewGenerator(lowBalanceThreshold int64) *Generator {
	return &Generator{lowBalanceThreshold: lowBalanceThreshold}
}

// Generate builds the full alert list from the summary and the currently
// loaded transaction window.
func (g *Generator) Generate(sum summary.Summary, transactions []models.Transaction) []Alert {
	alerts := make([]Alert, 0, 3)

	if sum.SafeToSpend < g.lowBalanceThreshold {
		alerts = append(alerts, Alert{
			ID:          IDLowBalance,
			Type:        TypeSecurity,
			Title:       "Low Safe-to-Spend Alert",
			Message:     fmt.Sprintf("Your Safe-to-Spend is ₹%s. Consider reducing expenses to maintain buffer.", money.Format(sum.SafeToSpend)),
			ActionLabel: "See Breakdown",
			Character:   "chanakya",
		})
	}

	impulseCount := 0
	for _, tx := range transactions {
		if tx.IsImpulse {
			impulseCount++
		}
	}
	if impulseCount > 0 {
		alerts = append(alerts, Alert{
			ID:          IDImpulse,
			Type:        TypeImpulse,
			Title:       "Impulse Purchase Detected",
			Message:     fmt.Sprintf("You have %d potential impulse purchase(s) this month. Review them to stay on track.", impulseCount),
			ActionLabel: "Review Purchases",
			Character:   "kavach",
		})
	}

	// Static reminder while the bills source is a fixed placeholder.
	alerts = append(alerts, Alert{
		ID:          IDUpcomingBills,
		Type:        TypeBill,
		Title:       "Upcoming Bill Reminder",
		Message:     fmt.Sprintf("You have bills totaling ₹%s due in the next 7 days.", money.Format(sum.UpcomingBills)),
		ActionLabel: "View Bills",
		Character:   "kavach",
	})

	return alerts
}
