package water

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/summary", GetSummary)
	r.Get("/tankers", ListTankers)
	r.Post("/tanker", AddTanker)
	r.Delete("/tanker/{id}", DeleteTanker)

	r.Get("/readings", ListReadings)
	r.Post("/reading", RecordReading)
	r.Put("/reading/{id}", UpdateReading)

	r.Post("/calculate-bills", CalculateBills)

	return r
}
