package guard

import (
	"net/http"

	"github.com/go-chi/render"

	"garmentgrid/internal/domain"
)

// SessionFunc extracts the resolved session of a request.
type SessionFunc func(*http.Request) domain.Session

// Middleware enforces Decide for an API route and answers every other
// outcome through Respond.
func Middleware(sessionOf SessionFunc, route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(sessionOf(r), route, r.URL.RequestURI())
			if d.Outcome == Allow {
				next.ServeHTTP(w, r)
				return
			}
			Respond(w, r, d)
		})
	}
}

// Respond writes the response for a decision other than Allow: 401 or 403
// with the redirect target, or 503 with Retry-After while the session is
// still loading.
func Respond(w http.ResponseWriter, r *http.Request, d Decision) {
	switch d.Outcome {
	case RedirectToLogin:
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "unauthorized", "redirect": d.Redirect})
	case RedirectToUnauthorized:
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, map[string]string{"error": "forbidden", "redirect": d.Redirect})
	default:
		w.Header().Set("Retry-After", "1")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"error": "session_loading"})
	}
}

// RequireAuthenticated guards a handler that needs any signed-in user.
func RequireAuthenticated(sessionOf SessionFunc) func(http.Handler) http.Handler {
	return Middleware(sessionOf, Route{Path: DashboardPath, Visibility: Authenticated})
}

// RequireRole guards a handler that needs role, or admin.
func RequireRole(sessionOf SessionFunc, role domain.UserRole) func(http.Handler) http.Handler {
	return Middleware(sessionOf, Route{Path: DashboardPath, Visibility: RoleRestricted, Role: role})
}

