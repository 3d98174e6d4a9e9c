package billing

import "github.com/go-chi/chi/v5"

// RegisterRoutes attaches billing-ledger endpoints onto the shared /api router.
func RegisterRoutes(r chi.Router, h Handler) {
	r.Get("/unit/{unitNumber}/history", ListByUnit)

	r.Get("/admin/month", ListByMonth)
	r.Post("/admin/generate-month", h.GenerateMonthHandler)
	r.Put("/admin/payment/{id}", UpdateRecord)
}
