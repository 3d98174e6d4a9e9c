package maintenance

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// GetBalance recomputes and returns a month's ledger row, creating it
// lazily on first query.
func GetBalance(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("monthYear")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "monthYear must be MM/YYYY")
		return
	}

	balance, err := Refresh(monthYear)
	if err != nil {
		utils.StorageError(w, "get balance", err)
		return
	}
	utils.Success(w, balance)
}

type monthRequest struct {
	MonthYear string `json:"month_year" validate:"required"`
}

// RefreshCollected recomputes a month's collected totals after a payment or
// expense change and returns the breakdown.
func RefreshCollected(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}
	if !period.Valid(req.MonthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "month_year must be MM/YYYY")
		return
	}

	balance, err := Refresh(req.MonthYear)
	if err != nil {
		utils.StorageError(w, "refresh collected", err)
		return
	}
	utils.Success(w, map[string]float64{
		"total_collected":       balance.TotalCollected,
		"maintenance_collected": balance.MaintenanceCollected,
		"corpus_collected":      balance.CorpusCollected,
		"closing_balance":       balance.ClosingBalance,
	})
}

// CarryForwardHandler rolls a month's closing balance into the next month's
// opening balance.
func CarryForwardHandler(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}
	if !period.Valid(req.MonthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "month_year must be MM/YYYY")
		return
	}

	next, err := CarryForward(req.MonthYear)
	if errors.Is(err, ErrBalanceNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "No balance found for current month")
		return
	}
	if err != nil {
		utils.StorageError(w, "carry forward", err)
		return
	}
	log.Printf("[maintenance] carried forward balance from %s to %s", req.MonthYear, next)
	utils.Success(w, map[string]string{"message": "Balance carried forward successfully", "next_month": next})
}

// ListExpenses returns a month's expenses, newest first.
func ListExpenses(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("monthYear")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "monthYear must be MM/YYYY")
		return
	}

	var expenses []Expense
	if err := db.DB.Where("month_year = ?", monthYear).Order("expense_date DESC").Find(&expenses).Error; err != nil {
		utils.StorageError(w, "list expenses", err)
		return
	}
	utils.Success(w, expenses)
}

// ListAllExpenses returns the full expense history.
func ListAllExpenses(w http.ResponseWriter, r *http.Request) {
	var expenses []Expense
	if err := db.DB.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		utils.StorageError(w, "list all expenses", err)
		return
	}
	utils.Success(w, expenses)
}

type expenseRequest struct {
	MonthYear   string  `json:"month_year" validate:"required"`
	ExpenseDate string  `json:"expense_date" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category"`
	Notes       string  `json:"notes"`
}

// AddExpense records an outflow and recomputes that month's expense total
// and closing balance in the same transaction.
func AddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}
	if !period.Valid(req.MonthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "month_year must be MM/YYYY")
		return
	}

	expense := Expense{
		MonthYear:   req.MonthYear,
		ExpenseDate: req.ExpenseDate,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Notes:       req.Notes,
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		return recomputeExpenses(tx, req.MonthYear)
	})
	if err != nil {
		utils.StorageError(w, "add expense", err)
		return
	}
	utils.Success(w, expense)
}

// DeleteExpense removes an outflow and recomputes its month in the same
// transaction.
func DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var expense Expense
		err := tx.First(&expense, "id = ?", id).Error
		if err != nil {
			return err
		}
		if err := tx.Delete(&expense).Error; err != nil {
			return err
		}
		return recomputeExpenses(tx, expense.MonthYear)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Expense not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "delete expense", err)
		return
	}
	utils.Success(w, map[string]string{"message": "Expense deleted"})
}
