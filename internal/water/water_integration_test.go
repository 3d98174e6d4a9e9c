package water_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/units"
	"github.com/SocietyHub/SH-Backend/internal/water"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var (
	dbAvailable bool
	testServer  *httptest.Server
)

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	units.Init()
	billing.Init()
	water.Init()

	r := chi.NewRouter()
	r.Mount("/api/water", water.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
}

// cleanupWaterMonth clears a test month's water and billing rows before and
// after the test.
func cleanupWaterMonth(t *testing.T, monthYear string) {
	t.Helper()
	clear := func() {
		db.DB.Where("month_year = ?", monthYear).Delete(&water.Tanker{})
		db.DB.Where("month_year = ?", monthYear).Delete(&water.MeterReading{})
		db.DB.Where("month_year = ?", monthYear).Delete(&billing.PaymentRecord{})
	}
	clear()
	t.Cleanup(clear)
}

func postJSON(t *testing.T, path string, payload map[string]any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(testServer.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) (code string) {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env.Code
}

// TestCalculateBills_NoDataMakesNoWrites verifies a month with no tanker
// deliveries is refused and no billing row is touched.
func TestCalculateBills_NoDataMakesNoWrites(t *testing.T) {
	requireDB(t)
	const month = "03/1996"
	cleanupWaterMonth(t, month)

	rec := billing.PaymentRecord{
		UnitNumber: fmt.Sprintf("T-%s", uuid.New().String()[:8]),
		MonthYear:  month,
		WaterBill:  42.5,
		Status:     billing.StatusPending,
	}
	if err := db.DB.Create(&rec).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	resp := postJSON(t, "/api/water/calculate-bills", map[string]any{"month_year": month})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := decodeEnvelope(t, resp); code != "no_data" {
		t.Errorf("code = %q, want no_data", code)
	}

	var unchanged billing.PaymentRecord
	if err := db.DB.First(&unchanged, "id = ?", rec.ID).Error; err != nil {
		t.Fatal(err)
	}
	if unchanged.WaterBill != 42.5 {
		t.Errorf("water_bill = %v, a refused calculation must not write", unchanged.WaterBill)
	}
}

// TestCalculateBills_PricesMeteredConsumption verifies the happy path: a
// unit's consumption priced at the month's blended rate lands on its bill.
func TestCalculateBills_PricesMeteredConsumption(t *testing.T) {
	requireDB(t)
	const month = "04/1996"
	cleanupWaterMonth(t, month)

	unitNumber := fmt.Sprintf("T-%s", uuid.New().String()[:8])
	rec := billing.PaymentRecord{UnitNumber: unitNumber, MonthYear: month, Status: billing.StatusPending}
	if err := db.DB.Create(&rec).Error; err != nil {
		t.Fatal(err)
	}
	tankers := []water.Tanker{
		{MonthYear: month, TankerDate: "1996-04-05", Liters: 1000, Cost: 5000},
		{MonthYear: month, TankerDate: "1996-04-18", Liters: 500, Cost: 3000},
	}
	if err := db.DB.Create(&tankers).Error; err != nil {
		t.Fatal(err)
	}
	reading := water.MeterReading{
		UnitNumber: unitNumber, MonthYear: month,
		StartReading: 100, EndReading: 150, LitersConsumed: 50,
	}
	if err := db.DB.Create(&reading).Error; err != nil {
		t.Fatal(err)
	}

	resp := postJSON(t, "/api/water/calculate-bills", map[string]any{"month_year": month})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	var priced billing.PaymentRecord
	if err := db.DB.First(&priced, "id = ?", rec.ID).Error; err != nil {
		t.Fatal(err)
	}
	// 8000 cost over 1500L blends to 5.333/L; 50L prices at 266.67.
	if math.Abs(priced.WaterBill-266.6666666) > 0.01 {
		t.Errorf("water_bill = %v, want ≈266.67", priced.WaterBill)
	}
}

// TestRecordReading_UpsertKeepsOneRow verifies recording a unit's reading
// twice for the same month updates in place rather than duplicating.
func TestRecordReading_UpsertKeepsOneRow(t *testing.T) {
	requireDB(t)
	const month = "05/1997"
	cleanupWaterMonth(t, month)

	unitNumber := fmt.Sprintf("T-%s", uuid.New().String()[:8])
	for _, end := range []int64{140, 165} {
		resp := postJSON(t, "/api/water/reading", map[string]any{
			"unit_number":   unitNumber,
			"month_year":    month,
			"start_reading": 100,
			"end_reading":   end,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		resp.Body.Close()
	}

	var count int64
	db.DB.Model(&water.MeterReading{}).
		Where("unit_number = ? AND month_year = ?", unitNumber, month).
		Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want exactly one per unit+month", count)
	}

	var reading water.MeterReading
	if err := db.DB.First(&reading, "unit_number = ? AND month_year = ?", unitNumber, month).Error; err != nil {
		t.Fatal(err)
	}
	if reading.EndReading != 165 || reading.LitersConsumed != 65 {
		t.Errorf("end=%d consumed=%d, want the second write's values 165/65",
			reading.EndReading, reading.LitersConsumed)
	}
}

// TestRecordReading_InvalidRange verifies a reading ending below its start
// is refused.
func TestRecordReading_InvalidRange(t *testing.T) {
	requireDB(t)
	const month = "06/1997"
	cleanupWaterMonth(t, month)

	unitNumber := fmt.Sprintf("T-%s", uuid.New().String()[:8])
	resp := postJSON(t, "/api/water/reading", map[string]any{
		"unit_number":   unitNumber,
		"month_year":    month,
		"start_reading": 200,
		"end_reading":   150,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := decodeEnvelope(t, resp); code != "invalid_range" {
		t.Errorf("code = %q, want invalid_range", code)
	}

	var count int64
	db.DB.Model(&water.MeterReading{}).
		Where("unit_number = ? AND month_year = ?", unitNumber, month).
		Count(&count)
	if count != 0 {
		t.Errorf("rejected reading must not be stored, found %d rows", count)
	}
}
