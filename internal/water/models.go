package water

import "time"

// Tanker is one water-tanker delivery.
type Tanker struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MonthYear  string    `gorm:"not null;index" json:"month_year"`
	TankerDate string    `gorm:"not null" json:"tanker_date"`
	Liters     int64     `gorm:"not null" json:"liters"`
	Cost       float64   `gorm:"not null" json:"cost"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Tanker) TableName() string { return "society.water_tankers" }

// MeterReading is one unit's metered consumption for one month.
type MeterReading struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UnitNumber     string    `gorm:"not null;index:idx_reading_unit_month,unique" json:"unit_number"`
	MonthYear      string    `gorm:"not null;index:idx_reading_unit_month,unique" json:"month_year"`
	StartReading   int64     `gorm:"not null;default:0" json:"start_reading"`
	EndReading     int64     `gorm:"not null;default:0" json:"end_reading"`
	LitersConsumed int64     `gorm:"not null;default:0" json:"liters_consumed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (MeterReading) TableName() string { return "society.water_meter_readings" }

// Summary aggregates a month's tanker deliveries.
type Summary struct {
	TotalTankers  int64   `json:"total_tankers"`
	TotalLiters   int64   `json:"total_liters"`
	TotalCost     float64 `json:"total_cost"`
	PricePerLiter float64 `json:"price_per_liter"`
}

// PricePerLiter is the blended tanker rate. Zero consumption months price
// at zero rather than erroring.
func PricePerLiter(totalLiters int64, totalCost float64) float64 {
	if totalLiters <= 0 {
		return 0
	}
	return totalCost / float64(totalLiters)
}

// BillFor prices a unit's metered consumption at the blended rate.
func BillFor(litersConsumed int64, pricePerLiter float64) float64 {
	return float64(litersConsumed) * pricePerLiter
}
