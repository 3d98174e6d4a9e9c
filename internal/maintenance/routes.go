package maintenance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/balance", GetBalance)
	r.Post("/refresh-collected", RefreshCollected)
	r.Post("/carry-forward", CarryForwardHandler)

	r.Get("/expenses", ListExpenses)
	r.Get("/expenses/all", ListAllExpenses)
	r.Post("/expense", AddExpense)
	r.Delete("/expense/{id}", DeleteExpense)

	return r
}
