// Package summary derives the read-only financial summary from a profile
// snapshot. Computation is a pure function of profile state: no side effects,
// recomputed synchronously whenever the profile changes.
package summary

import (
	"github.com/shopspring/decimal"

	"rupeeready/internal/models"
)

// Health is the coarse four-level classification of balance adequacy
// relative to income.
type Health string

const (
	HealthGood     Health = "good"
	HealthStable   Health = "stable"
	HealthCaution  Health = "caution"
	HealthCritical Health = "critical"
)

// Summary is the derived view of a profile. It is never persisted.
type Summary struct {
	SafeToSpend     int64  `json:"safe_to_spend"`
	TotalBalance    int64  `json:"total_balance"`
	TaxVault        int64  `json:"tax_vault"`
	UpcomingBills   int64  `json:"upcoming_bills"`
	TotalIncome     int64  `json:"total_income"`
	TotalExpenses   int64  `json:"total_expenses"`
	FinancialHealth Health `json:"financial_health"`
}

// BillsSource supplies the upcoming-bills total. There is no bills ledger
// yet, so the production implementation is a static placeholder.
type BillsSource interface {
	UpcomingBills() int64
}

// StaticBills is a fixed upcoming-bills amount in paise.
type StaticBills int64

// UpcomingBills returns the fixed amount.
func (b StaticBills) UpcomingBills() int64 { return int64(b) }

// Engine computes summaries.
type Engine struct {
	bills BillsSource
}

// NewEngine creates a summary engine with the given bills source.
func NewEngine(bills BillsSource) *Engine {
	return &Engine{bills: bills}
}

// Compute derives the summary from the given profile snapshot. A nil profile
// (signed in, profile not yet readable) yields a zero summary.
func (e *Engine) Compute(profile *models.Profile) Summary {
	s := Summary{
		UpcomingBills:   e.bills.UpcomingBills(),
		FinancialHealth: HealthStable,
	}
	if profile == nil {
		return s
	}

	s.SafeToSpend = profile.SafeBalance
	s.TotalBalance = profile.SafeBalance + profile.TaxVault
	s.TaxVault = profile.TaxVault
	s.TotalIncome = profile.TotalIncome
	s.TotalExpenses = profile.TotalExpenses
	s.FinancialHealth = ClassifyHealth(profile.SafeBalance, profile.TotalIncome)
	return s
}

var (
	twelve       = decimal.NewFromInt(12)
	ratioGood    = decimal.NewFromInt(3)
	ratioStable  = decimal.NewFromInt(1)
	ratioCaution = decimal.RequireFromString("0.5")
)

// ClassifyHealth compares the safe balance against a monthly-income proxy
// (lifetime income / 12). Zero lifetime income classifies as stable: a brand
// new profile is not in trouble, there is just nothing to measure yet.
func ClassifyHealth(safeBalance, totalIncome int64) Health {
	if totalIncome == 0 {
		return HealthStable
	}

	monthly := decimal.NewFromInt(totalIncome).Div(twelve)
	ratio := decimal.NewFromInt(safeBalance).Div(monthly)

	switch {
	case ratio.GreaterThanOrEqual(ratioGood):
		return HealthGood
	case ratio.GreaterThanOrEqual(ratioStable):
		return HealthStable
	case ratio.GreaterThanOrEqual(ratioCaution):
		return HealthCaution
	default:
		return HealthCritical
	}
}
