package water

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidRange is returned when a meter reading ends below its start.
var ErrInvalidRange = errors.New("end reading must not be below start reading")

// ErrNoData is returned when bill calculation runs on a month with no
// tanker deliveries.
var ErrNoData = errors.New("no tanker data available for this month")

// GetSummary aggregates a month's tanker deliveries into count, liters,
// cost and the blended price per liter.
func GetSummary(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("monthYear")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "monthYear must be MM/YYYY")
		return
	}

	summary, err := summarize(db.DB, monthYear)
	if err != nil {
		utils.StorageError(w, "water summary", err)
		return
	}
	utils.Success(w, summary)
}

func summarize(tx *gorm.DB, monthYear string) (Summary, error) {
	var agg struct {
		TotalTankers int64
		TotalLiters  int64
		TotalCost    float64
	}
	err := tx.Model(&Tanker{}).
		Select("COUNT(*) AS total_tankers, COALESCE(SUM(liters), 0) AS total_liters, COALESCE(SUM(cost), 0) AS total_cost").
		Where("month_year = ?", monthYear).
		Scan(&agg).Error
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalTankers:  agg.TotalTankers,
		TotalLiters:   agg.TotalLiters,
		TotalCost:     agg.TotalCost,
		PricePerLiter: PricePerLiter(agg.TotalLiters, agg.TotalCost),
	}, nil
}

// ListTankers returns all deliveries, newest first.
func ListTankers(w http.ResponseWriter, r *http.Request) {
	var tankers []Tanker
	if err := db.DB.Order("tanker_date DESC").Find(&tankers).Error; err != nil {
		utils.StorageError(w, "list tankers", err)
		return
	}
	utils.Success(w, tankers)
}

type tankerRequest struct {
	MonthYear  string  `json:"month_year" validate:"required"`
	TankerDate string  `json:"tanker_date" validate:"required"`
	Liters     int64   `json:"liters" validate:"required,gt=0"`
	Cost       float64 `json:"cost" validate:"required,gt=0"`
	Notes      string  `json:"notes"`
}

// AddTanker records one delivery.
func AddTanker(w http.ResponseWriter, r *http.Request) {
	var req tankerRequest
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

	tanker := Tanker{
		MonthYear:  req.MonthYear,
		TankerDate: req.TankerDate,
		Liters:     req.Liters,
		Cost:       req.Cost,
		Notes:      req.Notes,
	}
	if err := db.DB.Create(&tanker).Error; err != nil {
		utils.StorageError(w, "add tanker", err)
		return
	}
	utils.Success(w, tanker)
}

// DeleteTanker removes one delivery.
func DeleteTanker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res := db.DB.Delete(&Tanker{}, "id = ?", id)
	if res.Error != nil {
		utils.StorageError(w, "delete tanker", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Tanker not found")
		return
	}
	utils.Success(w, map[string]string{"message": "Tanker deleted"})
}

// ListReadings returns a month's meter readings ordered by unit.
func ListReadings(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("monthYear")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "monthYear must be MM/YYYY")
		return
	}

	var readings []MeterReading
	if err := db.DB.Where("month_year = ?", monthYear).Order("unit_number").Find(&readings).Error; err != nil {
		utils.StorageError(w, "list readings", err)
		return
	}
	utils.Success(w, readings)
}

type readingRequest struct {
	UnitNumber   string `json:"unit_number" validate:"required"`
	MonthYear    string `json:"month_year" validate:"required"`
	StartReading int64  `json:"start_reading" validate:"gte=0"`
	EndReading   int64  `json:"end_reading" validate:"gte=0"`
}

// RecordReading upserts one unit's reading for a month and derives its
// consumption.
func RecordReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
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
	if req.EndReading < req.StartReading {
		utils.Fail(w, http.StatusBadRequest, utils.CodeInvalidRange, ErrInvalidRange.Error())
		return
	}

	reading := MeterReading{
		UnitNumber:     req.UnitNumber,
		MonthYear:      req.MonthYear,
		StartReading:   req.StartReading,
		EndReading:     req.EndReading,
		LitersConsumed: req.EndReading - req.StartReading,
	}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_number"}, {Name: "month_year"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_reading", "end_reading", "liters_consumed", "updated_at"}),
	}).Create(&reading).Error
	if err != nil {
		utils.StorageError(w, "record reading", err)
		return
	}
	utils.Success(w, reading)
}

type readingUpdateRequest struct {
	StartReading *int64 `json:"start_reading"`
	EndReading   *int64 `json:"end_reading"`
}

// UpdateReading edits an existing reading in place, re-deriving consumption.
func UpdateReading(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req readingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var reading MeterReading
	err := db.DB.First(&reading, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Reading not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "reading lookup", err)
		return
	}

	if req.StartReading != nil {
		reading.StartReading = *req.StartReading
	}
	if req.EndReading != nil {
		reading.EndReading = *req.EndReading
	}
	if reading.EndReading < reading.StartReading {
		utils.Fail(w, http.StatusBadRequest, utils.CodeInvalidRange, ErrInvalidRange.Error())
		return
	}
	reading.LitersConsumed = reading.EndReading - reading.StartReading

	if err := db.DB.Model(&reading).
		Select("start_reading", "end_reading", "liters_consumed").
		Updates(&reading).Error; err != nil {
		utils.StorageError(w, "update reading", err)
		return
	}
	utils.Success(w, reading)
}

type calculateRequest struct {
	MonthYear string `json:"month_year" validate:"required"`
}

// CalculateBills prices every metered unit's consumption at the month's
// blended rate and writes it onto the matching billing record. Readings
// with no billing record are skipped, never created.
func CalculateBills(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
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

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		summary, err := summarize(tx, req.MonthYear)
		if err != nil {
			return err
		}
		if summary.TotalLiters == 0 {
			return ErrNoData
		}

		var readings []MeterReading
		if err := tx.Where("month_year = ?", req.MonthYear).Find(&readings).Error; err != nil {
			return err
		}

		for _, reading := range readings {
			err := tx.Model(&billing.PaymentRecord{}).
				Where("unit_number = ? AND month_year = ?", reading.UnitNumber, req.MonthYear).
				Update("water_bill", BillFor(reading.LitersConsumed, summary.PricePerLiter)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrNoData) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeNoData, ErrNoData.Error())
		return
	}
	if err != nil {
		utils.StorageError(w, "calculate bills", err)
		return
	}
	utils.Success(w, map[string]string{"message": "Water bills calculated and updated"})
}
