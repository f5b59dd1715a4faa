package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"garmentgrid/internal/guard"
	"garmentgrid/internal/http/handlers"
	"garmentgrid/internal/middleware"
)

// NewRouter mounts every API route. lookup may be nil when no GeoIP
// database is configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   app.Config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		middleware.Session(app.Tokens, app.Auth, app.Logger),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
			r.Post("/register", app.AuthRegister)
			r.Post("/login", app.AuthLogin)
			r.Post("/google", app.AuthGoogle)
		})
		r.Post("/logout", app.AuthLogout)
		r.Get("/session", app.AuthSession)
		r.Get("/session/events", app.SessionEvents)
	})

	r.Route("/v1/products", func(r chi.Router) {
		r.Get("/", app.ProductsList)
		r.Get("/{id}", app.ProductsGet)
		r.With(guard.RequireAuthenticated(middleware.SessionFromRequest)).
			Post("/{id}/bookings", app.BookingsCreate)
	})
	r.Get("/v1/bookings/quote", app.BookingsQuote)

	r.Get("/v1/navigation", app.Navigation)
	r.Get("/v1/routes/resolve", app.RoutesResolve)
	r.Get("/v1/dashboard", app.Dashboard)
	r.Get("/v1/dashboard/{section}", app.Dashboard)

	r.Get("/v1/preferences/theme", app.ThemeGet)
	r.Put("/v1/preferences/theme", app.ThemePut)

	return r
}
