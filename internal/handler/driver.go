package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
)

// registerDriverRequest is the POST /drivers body.
type registerDriverRequest struct {
	Phone      string `json:"phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Experience int    `json:"experience_years"`
}

// driverResponse is the public view of a driver. The access code appears
// only here, in the registration response — it is shown exactly once.
type driverResponse struct {
	ID         uuid.UUID `json:"id"`
	Phone      string    `json:"phone"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email,omitempty"`
	Experience int       `json:"experience_years"`
	AccessCode string    `json:"access_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func driverToResponse(d domain.Driver, includeCode bool) driverResponse {
	resp := driverResponse{
		ID:         d.ID,
		Phone:      d.Phone,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Experience: d.Experience,
		CreatedAt:  d.CreatedAt,
	}
	if includeCode {
		resp.AccessCode = d.AccessCode
	}
	return resp
}

// RegisterDriver handles POST /drivers.
func (s *Server) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	var body registerDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	created, err := s.drivers.Register(r.Context(), domain.Driver{
		Phone:      body.Phone,
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Email:      body.Email,
		Experience: body.Experience,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, driverToResponse(created, true))
}
