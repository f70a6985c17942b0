package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ibarry/covoiturage/internal/domain"
)

// reservationRequest is the POST /trips/{id}/reservations body.
type reservationRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateReservation handles POST /trips/{id}/reservations. Public: riders
// book without an account. The seat decrement is atomic at the repo layer,
// so a full trip answers 409 trip_full no matter how many riders race.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r)
	if err != nil {
		writeRequestError(w, http.StatusNotFound, "trip id must be a UUID")
		return
	}

	var body reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	created, err := s.reservations.Reserve(r.Context(), tripID, domain.Reservation{
		Name:  body.Name,
		Phone: body.Phone,
		Email: body.Email,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
