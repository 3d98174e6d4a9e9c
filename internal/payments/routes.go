package payments

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/test", TestHandler)
	r.Get("/details/{unitNumber}/*", GetDetails)
	r.Post("/create-order", h.CreateOrder)
	r.Post("/verify", Verify)

	return r
}
