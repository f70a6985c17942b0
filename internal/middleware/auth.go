package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ibarry/covoiturage/internal/domain"
)

// AccessCodeHeader carries the driver's access code on authenticated routes.
const AccessCodeHeader = "X-Access-Code"

// Authenticator resolves an access code to its driver. Satisfied by
// service.DriverService.
type Authenticator interface {
	Authenticate(ctx context.Context, code string) (domain.Driver, error)
}

type driverCtxKey struct{}

// NewAccessCodeAuth returns a middleware that requires a valid X-Access-Code
// header and stores the resolved driver in the request context. A missing,
// unknown, or deactivated code gets 401 — the response never distinguishes
// the three, so the header cannot be used to probe for live codes.
func NewAccessCodeAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.Header.Get(AccessCodeHeader)
			driver, err := auth.Authenticate(r.Context(), code)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "a valid access code is required",
				})
				return
			}
			ctx := context.WithValue(r.Context(), driverCtxKey{}, driver)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DriverFromContext returns the driver stored by NewAccessCodeAuth.
// ok is false on routes that did not pass through the auth middleware.
func DriverFromContext(ctx context.Context) (domain.Driver, bool) {
	driver, ok := ctx.Value(driverCtxKey{}).(domain.Driver)
	return driver, ok
}
