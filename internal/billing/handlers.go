package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// Handler carries the billing defaults the generation path needs.
type Handler struct {
	WaterMin float64
	WaterMax float64
}

// ListByMonth returns every record for a month, ordered by unit number.
func ListByMonth(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("monthYear")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "monthYear must be MM/YYYY")
		return
	}

	var records []PaymentRecord
	if err := db.DB.Where("month_year = ?", monthYear).Order("unit_number").Find(&records).Error; err != nil {
		utils.StorageError(w, "list month", err)
		return
	}
	utils.Success(w, records)
}

// ListByUnit returns a unit's full billing history, newest month first.
func ListByUnit(w http.ResponseWriter, r *http.Request) {
	unitNumber := chi.URLParam(r, "unitNumber")

	var records []PaymentRecord
	if err := db.DB.Where("unit_number = ?", unitNumber).Order(period.OrderDesc).Find(&records).Error; err != nil {
		utils.StorageError(w, "unit history", err)
		return
	}
	utils.Success(w, records)
}

type generateRequest struct {
	MonthYear string `json:"month_year" validate:"required"`
}

// GenerateMonthHandler triggers manual month generation.
func (h Handler) GenerateMonthHandler(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
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

	if err := GenerateMonth(req.MonthYear, h.WaterMin, h.WaterMax); err != nil {
		if errors.Is(err, ErrMonthExists) {
			utils.Fail(w, http.StatusConflict, utils.CodeConflict, "Billing for this month already exists")
			return
		}
		utils.StorageError(w, "generate month", err)
		return
	}
	utils.Success(w, map[string]string{"message": "Month billing generated successfully"})
}

// UpdateRecord merges a partial edit onto a record and rewrites the row.
func UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var rec PaymentRecord
	err := db.DB.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Payment record not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "record lookup", err)
		return
	}

	if err := applyUpdates(&rec, raw); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, err.Error())
		return
	}

	// Full-row rewrite so cleared pointers (paid_date, payment_method)
	// actually null out in the store.
	if err := db.DB.Model(&rec).Select("rent", "water_bill", "maintenance", "corpus",
		"status", "paid_date", "payment_method").Updates(&rec).Error; err != nil {
		utils.StorageError(w, "update record", err)
		return
	}
	utils.Success(w, rec)
}
