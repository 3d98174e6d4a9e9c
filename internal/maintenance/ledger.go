package maintenance

import (
	"errors"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBalanceNotFound is returned when carry-forward targets a month with no
// ledger row.
var ErrBalanceNotFound = errors.New("no balance found for month")

// ClosingBalance is the ledger invariant in one place.
func ClosingBalance(opening, collected, expenses float64) float64 {
	return opening + collected - expenses
}

type collectedTotals struct {
	Maintenance float64
	Corpus      float64
}

func (c collectedTotals) total() float64 { return c.Maintenance + c.Corpus }

func sumCollected(tx *gorm.DB, monthYear string) (collectedTotals, error) {
	var agg struct {
		Maintenance float64
		Corpus      float64
	}
	err := tx.Model(&billing.PaymentRecord{}).
		Select("COALESCE(SUM(maintenance), 0) AS maintenance, COALESCE(SUM(corpus), 0) AS corpus").
		Where("month_year = ? AND status = ?", monthYear, billing.StatusPaid).
		Scan(&agg).Error
	return collectedTotals{Maintenance: agg.Maintenance, Corpus: agg.Corpus}, err
}

func sumExpenses(tx *gorm.DB, monthYear string) (float64, error) {
	var total float64
	err := tx.Model(&Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("month_year = ?", monthYear).
		Scan(&total).Error
	return total, err
}

// Refresh recomputes and upserts the ledger row for a month from the store:
// collected figures from paid billing records, expenses from the expense
// table, opening from the existing row (0 for a fresh month), closing per
// the invariant. Idempotent — repeated calls with unchanged underlying data
// store identical values.
func Refresh(monthYear string) (Balance, error) {
	var out Balance
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		refreshed, err := refreshTx(tx, monthYear)
		if err != nil {
			return err
		}
		out = refreshed
		return nil
	})
	return out, err
}

func refreshTx(tx *gorm.DB, monthYear string) (Balance, error) {
	collected, err := sumCollected(tx, monthYear)
	if err != nil {
		return Balance{}, err
	}
	expenses, err := sumExpenses(tx, monthYear)
	if err != nil {
		return Balance{}, err
	}

	opening := 0.0
	var existing Balance
	err = tx.First(&existing, "month_year = ?", monthYear).Error
	switch {
	case err == nil:
		opening = existing.OpeningBalance
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first touch of this month; opening stays 0 until carry-forward
	default:
		return Balance{}, err
	}

	row := Balance{
		MonthYear:            monthYear,
		OpeningBalance:       opening,
		TotalCollected:       collected.total(),
		TotalExpenses:        expenses,
		ClosingBalance:       ClosingBalance(opening, collected.total(), expenses),
		MaintenanceCollected: collected.Maintenance,
		CorpusCollected:      collected.Corpus,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "month_year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_collected", "total_expenses", "closing_balance",
			"maintenance_collected", "corpus_collected", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return Balance{}, err
	}

	var stored Balance
	if err := tx.First(&stored, "month_year = ?", monthYear).Error; err != nil {
		return Balance{}, err
	}
	return stored, nil
}

// recomputeExpenses re-sums a month's expenses and rewrites total_expenses
// and closing_balance only; opening and collected figures stay untouched.
// Runs inside the caller's transaction so an expense mutation and its
// recompute commit or roll back together.
func recomputeExpenses(tx *gorm.DB, monthYear string) error {
	expenses, err := sumExpenses(tx, monthYear)
	if err != nil {
		return err
	}

	opening, collected := 0.0, 0.0
	var existing Balance
	err = tx.First(&existing, "month_year = ?", monthYear).Error
	switch {
	case err == nil:
		opening = existing.OpeningBalance
		collected = existing.TotalCollected
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return err
	}

	row := Balance{
		MonthYear:      monthYear,
		OpeningBalance: opening,
		TotalCollected: collected,
		TotalExpenses:  expenses,
		ClosingBalance: ClosingBalance(opening, collected, expenses),
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "month_year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_expenses", "closing_balance", "updated_at",
		}),
	}).Create(&row).Error
}

// CarryForward marks monthYear's row carried_forward and rolls its closing
// balance into the next month's opening. The next month's closing is
// recomputed from its own collected/expense totals — bills may already have
// been generated and paid there — never blindly overwritten.
func CarryForward(monthYear string) (nextMonth string, err error) {
	next, err := period.Next(monthYear)
	if err != nil {
		return "", err
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var current Balance
		err := tx.First(&current, "month_year = ?", monthYear).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBalanceNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&Balance{}).
			Where("month_year = ?", monthYear).
			Update("carried_forward", true).Error; err != nil {
			return err
		}

		closing := current.ClosingBalance
		row := Balance{
			MonthYear:      next,
			OpeningBalance: closing,
			ClosingBalance: closing, // fresh month: no collections or expenses yet
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "month_year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"opening_balance": closing,
				"closing_balance": gorm.Expr(
					"? + maintenance_balance.total_collected - maintenance_balance.total_expenses",
					closing,
				),
			}),
		}).Create(&row).Error
	})
	if err != nil {
		return "", err
	}
	return next, nil
}
