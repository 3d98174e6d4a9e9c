package billing_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/units"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	units.Init()
	billing.Init()

	os.Exit(m.Run())
}

// createTestUnit inserts a unique unit and registers cleanup of the unit and
// any billing records created for it.
func createTestUnit(t *testing.T, rent float64) string {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	unitNumber := fmt.Sprintf("T-%s", uuid.New().String()[:8])
	unit := units.Unit{UnitNumber: unitNumber, Rent: rent}
	if err := db.DB.Create(&unit).Error; err != nil {
		t.Fatalf("failed to create test unit: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("unit_number = ?", unitNumber).Delete(&billing.PaymentRecord{})
		db.DB.Where("unit_number = ?", unitNumber).Delete(&units.Unit{})
	})
	return unitNumber
}

// cleanupMonth clears a test month's records before and after the test, so
// leftovers from an interrupted run cannot trip the existence check.
func cleanupMonth(t *testing.T, monthYear string) {
	t.Helper()
	db.DB.Where("month_year = ?", monthYear).Delete(&billing.PaymentRecord{})
	t.Cleanup(func() {
		db.DB.Where("month_year = ?", monthYear).Delete(&billing.PaymentRecord{})
	})
}

// TestGenerateMonth_OneRecordPerUnit verifies that generation creates exactly
// one pending record per unit with the unit's current rent and a placeholder
// water bill inside the configured range.
func TestGenerateMonth_OneRecordPerUnit(t *testing.T) {
	unitA := createTestUnit(t, 8000)
	unitB := createTestUnit(t, 9500)

	const month = "02/1991"
	cleanupMonth(t, month)

	if err := billing.GenerateMonth(month, 35, 60); err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}

	var unitCount, recordCount int64
	db.DB.Model(&units.Unit{}).Count(&unitCount)
	db.DB.Model(&billing.PaymentRecord{}).Where("month_year = ?", month).Count(&recordCount)
	if recordCount != unitCount {
		t.Errorf("generated %d records for %d units", recordCount, unitCount)
	}

	for _, unitNumber := range []string{unitA, unitB} {
		var rec billing.PaymentRecord
		if err := db.DB.First(&rec, "unit_number = ? AND month_year = ?", unitNumber, month).Error; err != nil {
			t.Fatalf("record for %s: %v", unitNumber, err)
		}
		if rec.Status != billing.StatusPending {
			t.Errorf("%s: status = %q, want pending", unitNumber, rec.Status)
		}
		if rec.WaterBill < 35 || rec.WaterBill > 60 {
			t.Errorf("%s: placeholder water bill %v outside [35, 60]", unitNumber, rec.WaterBill)
		}
		if rec.Maintenance != 0 || rec.Corpus != 0 {
			t.Errorf("%s: fresh month should start maintenance/corpus at zero", unitNumber)
		}
	}

	var recA billing.PaymentRecord
	db.DB.First(&recA, "unit_number = ? AND month_year = ?", unitA, month)
	if recA.Rent != 8000 {
		t.Errorf("rent = %v, want the unit's current rent 8000", recA.Rent)
	}
}

// TestGenerateMonth_Conflict verifies that generating twice for the same
// month is rejected.
func TestGenerateMonth_Conflict(t *testing.T) {
	createTestUnit(t, 7000)

	const month = "02/1992"
	cleanupMonth(t, month)

	if err := billing.GenerateMonth(month, 35, 60); err != nil {
		t.Fatalf("first GenerateMonth: %v", err)
	}
	err := billing.GenerateMonth(month, 35, 60)
	if !errors.Is(err, billing.ErrMonthExists) {
		t.Errorf("second GenerateMonth error = %v, want ErrMonthExists", err)
	}
}

// TestGenerateMonth_CarriesForwardUnpaidDues verifies the carry-forward
// policy: a unit with a pending prior record keeps its maintenance/corpus,
// a unit whose prior record was paid starts at zero.
func TestGenerateMonth_CarriesForwardUnpaidDues(t *testing.T) {
	unpaidUnit := createTestUnit(t, 8000)
	paidUnit := createTestUnit(t, 8000)

	const prevMonth = "01/1993"
	const month = "02/1993"
	cleanupMonth(t, prevMonth)
	cleanupMonth(t, month)

	paidDate := "1993-01-20"
	method := "cash"
	prior := []billing.PaymentRecord{
		{UnitNumber: unpaidUnit, MonthYear: prevMonth, Rent: 8000, Maintenance: 500, Corpus: 200, Status: billing.StatusPending},
		{UnitNumber: paidUnit, MonthYear: prevMonth, Rent: 8000, Maintenance: 500, Corpus: 200, Status: billing.StatusPaid, PaidDate: &paidDate, PaymentMethod: &method},
	}
	if err := db.DB.Create(&prior).Error; err != nil {
		t.Fatalf("seed prior month: %v", err)
	}

	if err := billing.GenerateMonth(month, 35, 60); err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}

	var carried billing.PaymentRecord
	if err := db.DB.First(&carried, "unit_number = ? AND month_year = ?", unpaidUnit, month).Error; err != nil {
		t.Fatal(err)
	}
	if carried.Maintenance != 500 || carried.Corpus != 200 {
		t.Errorf("pending prior dues not carried: maintenance=%v corpus=%v, want 500/200",
			carried.Maintenance, carried.Corpus)
	}

	var fresh billing.PaymentRecord
	if err := db.DB.First(&fresh, "unit_number = ? AND month_year = ?", paidUnit, month).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Maintenance != 0 || fresh.Corpus != 0 {
		t.Errorf("paid prior month must reset dues: maintenance=%v corpus=%v, want 0/0",
			fresh.Maintenance, fresh.Corpus)
	}
}
