package billing

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"

	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"github.com/SocietyHub/SH-Backend/internal/units"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMonthExists is returned when billing was already generated for a month.
var ErrMonthExists = errors.New("billing for this month already exists")

// GenerateMonth creates one pending PaymentRecord per unit for monthYear.
//
// Rent comes from the unit's current rent. The water bill is a uniform
// placeholder inside [waterMin, waterMax] until metered calculation replaces
// it. Maintenance and corpus carry forward from the unit's previous-month
// record iff that record is still pending; a paid (or missing) prior record
// starts both at zero. Unpaid dues accumulate without re-charging rent or
// water.
//
// The existence check and the inserts run inside one transaction holding an
// advisory lock keyed on the month, so a scheduler tick and a manual admin
// trigger cannot race into duplicate rows. The inserts themselves are
// natural-key upserts as a second line of defense.
func GenerateMonth(monthYear string, waterMin, waterMax float64) error {
	if !period.Valid(monthYear) {
		return fmt.Errorf("invalid month token %q", monthYear)
	}
	prevMonth, err := period.Previous(monthYear)
	if err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", generateLockKey(monthYear)).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&PaymentRecord{}).Where("month_year = ?", monthYear).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrMonthExists
		}

		var allUnits []units.Unit
		if err := tx.Order("unit_number").Find(&allUnits).Error; err != nil {
			return err
		}
		if len(allUnits) == 0 {
			return nil
		}

		var prior []PaymentRecord
		if err := tx.Where("month_year = ?", prevMonth).Find(&prior).Error; err != nil {
			return err
		}
		priorByUnit := make(map[string]PaymentRecord, len(prior))
		for _, rec := range prior {
			priorByUnit[rec.UnitNumber] = rec
		}

		records := make([]PaymentRecord, 0, len(allUnits))
		for _, unit := range allUnits {
			rec := PaymentRecord{
				UnitNumber: unit.UnitNumber,
				MonthYear:  monthYear,
				Rent:       unit.Rent,
				WaterBill:  placeholderWaterBill(waterMin, waterMax),
				Status:     StatusPending,
			}
			if prev, ok := priorByUnit[unit.UnitNumber]; ok && prev.Status == StatusPending {
				rec.Maintenance = prev.Maintenance
				rec.Corpus = prev.Corpus
				log.Printf("[billing] carrying forward dues for %s: maintenance=%.2f corpus=%.2f",
					unit.UnitNumber, prev.Maintenance, prev.Corpus)
			}
			records = append(records, rec)
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_number"}, {Name: "month_year"}},
			DoNothing: true,
		}).Create(&records).Error
	})
}

func placeholderWaterBill(min, max float64) float64 {
	v := min + rand.Float64()*(max-min)
	return math.Round(v*100) / 100
}

// generateLockKey derives a stable advisory-lock key for a month token.
func generateLockKey(monthYear string) int64 {
	h := fnv.New64a()
	h.Write([]byte("billing.generate:" + monthYear))
	return int64(h.Sum64())
}
