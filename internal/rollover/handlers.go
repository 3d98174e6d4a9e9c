package rollover

import (
	"net/http"

	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// TriggerHandler runs one rollover tick on demand and reports the runner's
// resulting status.
func (r *Runner) TriggerHandler(w http.ResponseWriter, req *http.Request) {
	if _, err := r.Tick(); err != nil {
		utils.StorageError(w, "rollover tick", err)
		return
	}
	month, state := r.Status()
	utils.Success(w, map[string]string{
		"message": "Month generation check completed",
		"month":   month,
		"state":   string(state),
	})
}

// RegisterRoutes attaches the manual trigger onto the shared /api router.
func (r *Runner) RegisterRoutes(router chi.Router) {
	router.Post("/admin/auto-generate-check", r.TriggerHandler)
}
