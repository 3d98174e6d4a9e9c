package maintenance

import "time"

// Balance is the maintenance-fund ledger row for one month. The invariant
// closing = opening + collected − expenses holds after every recompute;
// opening for month N+1 is written only by carry-forward reading month N's
// closing.
type Balance struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	MonthYear            string    `gorm:"not null;uniqueIndex" json:"month_year"`
	OpeningBalance       float64   `gorm:"not null;default:0" json:"opening_balance"`
	TotalCollected       float64   `gorm:"not null;default:0" json:"total_collected"`
	TotalExpenses        float64   `gorm:"not null;default:0" json:"total_expenses"`
	ClosingBalance       float64   `gorm:"not null;default:0" json:"closing_balance"`
	MaintenanceCollected float64   `gorm:"not null;default:0" json:"maintenance_collected"`
	CorpusCollected      float64   `gorm:"not null;default:0" json:"corpus_collected"`
	CarriedForward       bool      `gorm:"not null;default:false" json:"carried_forward"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Balance) TableName() string { return "society.maintenance_balance" }

// Expense is one maintenance-fund outflow.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MonthYear   string    `gorm:"not null;index" json:"month_year"`
	ExpenseDate string    `gorm:"not null" json:"expense_date"`
	Description string    `gorm:"not null" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `json:"category"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Expense) TableName() string { return "society.maintenance_expenses" }
