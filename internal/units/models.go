package units

import (
	"time"

	"github.com/lib/pq"
)

// Unit holds the slowly-changing facts for one residential unit.
// Units are created at setup and edited, never deleted.
type Unit struct {
	UnitNumber     string         `gorm:"primaryKey" json:"unit_number"`
	Rent           float64        `gorm:"not null;default:0" json:"rent"`
	TenantNames    pq.StringArray `gorm:"type:text[]" json:"tenant_names"`
	NumTenants     int            `gorm:"default:0" json:"num_tenants"`
	NumCars        int            `gorm:"default:0" json:"num_cars"`
	NumTwoWheelers int            `gorm:"default:0" json:"num_two_wheelers"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Unit) TableName() string { return "society.units" }

// Login maps a unit to its bcrypt-hashed PIN. The admin row carries
// role "admin" and gates the management pages.
type Login struct {
	Unit      string    `gorm:"primaryKey" json:"unit"`
	HashedPIN string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:'resident'" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Login) TableName() string { return "society.login" }
