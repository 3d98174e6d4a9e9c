package units

import (
	"log"

	"github.com/SocietyHub/SH-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "society"); err != nil {
		log.Fatal("Failed to ensure schema society: ", err)
	}

	if err := db.DB.AutoMigrate(&Unit{}, &Login{}); err != nil {
		log.Fatal("Failed to auto-migrate unit tables: ", err)
	}
}
