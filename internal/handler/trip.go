package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/middleware"
)

// tripRequest is the POST /trips and PUT /trips/{id} body.
type tripRequest struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Price       float64   `json:"price"`
	VehicleType string    `json:"vehicle_type"`
	Comment     string    `json:"comment"`
	Seats       int       `json:"seats"`
}

func (b tripRequest) toDomain() domain.Trip {
	return domain.Trip{
		Origin:      b.Origin,
		Destination: b.Destination,
		Departure:   b.Departure,
		Price:       b.Price,
		VehicleType: b.VehicleType,
		Comment:     b.Comment,
		SeatsTotal:  b.Seats,
	}
}

// pagination is the envelope wrapped around every search page.
type pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

type searchResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination pagination    `json:"pagination"`
}

// PublishTrip handles POST /trips (authenticated).
func (s *Server) PublishTrip(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.DriverFromContext(r.Context())

	var body tripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	created, err := s.trips.Publish(r.Context(), driver.ID, body.toDomain())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, http.StatusNotFound, "trip id must be a UUID")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// EditTrip handles PUT /trips/{id} (authenticated, owner only, only while
// the trip has no reservations).
func (s *Server) EditTrip(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.DriverFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, http.StatusNotFound, "trip id must be a UUID")
		return
	}

	var body tripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	trip := body.toDomain()
	trip.ID = id

	updated, err := s.trips.Edit(r.Context(), driver.ID, trip)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{id} (authenticated, owner only, only
// while the trip has no reservations).
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.DriverFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, http.StatusNotFound, "trip id must be a UUID")
		return
	}

	if err := s.trips.Delete(r.Context(), driver.ID, id); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchTrips handles GET /trips.
// Supports ?origin=, ?destination=, ?page= and ?limit= query parameters.
// Out-of-range pages clamp instead of erroring.
func (s *Server) SearchTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))

	result, err := s.trips.Search(r.Context(), q.Get("origin"), q.Get("destination"), params)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	data := result.Trips
	if data == nil {
		data = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Data: data,
		Pagination: pagination{
			Page:       result.Page,
			TotalPages: result.TotalPages,
			Total:      result.Total,
		},
	})
}

// queryInt parses an optional numeric query parameter; anything unparsable
// counts as absent so a bad ?page= falls back to the default.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
