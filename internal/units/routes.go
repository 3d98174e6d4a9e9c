package units

import (
	"github.com/SocietyHub/SH-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes attaches unit-registry endpoints onto the shared /api router.
// Login is rate-limited per client IP.
func RegisterRoutes(r chi.Router) {
	r.With(middleware.LoginRateLimiter()).Post("/login", LoginHandler)

	r.Get("/unit/{unitNumber}", GetUnit)
	r.Put("/unit/{unitNumber}/update", SelfUpdateUnit)

	r.Get("/admin/units", ListUnits)
	r.Put("/admin/unit/{unitNumber}", AdminUpdateUnit)
}
