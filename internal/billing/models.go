package billing

import "time"

// PaymentRecord is one unit's bill for one month. The (unit_number,
// month_year) pair is the natural key; at most one record per unit per month.
type PaymentRecord struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	UnitNumber        string  `gorm:"not null;index:idx_payment_unit_month,unique" json:"unit_number"`
	MonthYear         string  `gorm:"not null;index:idx_payment_unit_month,unique" json:"month_year"`
	Rent              float64 `gorm:"not null;default:0" json:"rent"`
	WaterBill         float64 `gorm:"not null;default:0" json:"water_bill"`
	Maintenance       float64 `gorm:"not null;default:0" json:"maintenance"`
	Corpus            float64 `gorm:"not null;default:0" json:"corpus"`
	Status            string  `gorm:"not null;default:'pending'" json:"status"`
	PaidDate          *string `json:"paid_date,omitempty"`
	PaymentMethod     *string `json:"payment_method,omitempty"`
	RazorpayOrderID   *string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string `json:"razorpay_payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentRecord) TableName() string { return "society.payment_history" }

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// TotalDue is the amount a resident owes for this record.
func (p PaymentRecord) TotalDue() float64 {
	return p.Rent + p.WaterBill + p.Maintenance + p.Corpus
}
