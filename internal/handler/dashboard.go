package handler

import (
	"net/http"

	"github.com/ibarry/covoiturage/internal/middleware"
)

// GetDashboard handles GET /dashboard (authenticated). The response echoes
// the driver without the access code — the caller already has it.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.DriverFromContext(r.Context())

	dash, err := s.dashboard.ForDriver(r.Context(), driver)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	dash.Driver.AccessCode = ""
	writeJSON(w, http.StatusOK, dash)
}
