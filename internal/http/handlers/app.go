package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"garmentgrid/internal/booking"
	"garmentgrid/internal/catalog"
	"garmentgrid/internal/domain"
	"garmentgrid/internal/i18n"
	"garmentgrid/internal/identity"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/middleware"
	"garmentgrid/internal/validation"
)

// App carries the dependencies shared by every handler.
type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Auth      *identity.Adapter
	Tokens    *identity.TokenIssuer
	Catalog   *catalog.Service
	Bookings  *booking.Service
	Validator *validation.Validator
	Upgrader  websocket.Upgrader
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, auth *identity.Adapter, tokens *identity.TokenIssuer, products domain.ProductRepository, bookings domain.BookingRepository) *App {
	v := validation.New()
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return &App{
		Config:    cfg,
		Logger:    logger,
		Auth:      auth,
		Tokens:    tokens,
		Catalog:   catalog.NewService(products),
		Bookings:  booking.NewService(products, bookings, v),
		Validator: v,
		Upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (a *App) json(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, code int, errCode, msg string) {
	a.json(w, r, code, map[string]string{"error": errCode, "message": msg})
}

// decode reads a JSON body into v, answering 400 on failure.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// fail renders err by kind: field errors, auth errors, not found, or internal.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	if fields, ok := validation.AsErrors(err); ok {
		a.json(w, r, http.StatusUnprocessableEntity, map[string]any{"error": "validation_failed", "fields": fields})
		return
	}
	if ae, ok := identity.AsAuthError(err); ok {
		if ae.Kind == identity.KindUnknown || ae.Kind == identity.KindNetworkError {
			a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("auth operation failed")
		}
		a.error(w, r, authStatus(ae.Kind), string(ae.Kind), ae.Message(a.locale(r)))
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, r, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
	a.error(w, r, http.StatusInternalServerError, "internal", i18n.T(a.locale(r), i18n.AuthUnknown))
}

func authStatus(kind identity.AuthErrorKind) int {
	switch kind {
	case identity.KindEmailInUse:
		return http.StatusConflict
	case identity.KindWeakPassword, identity.KindPopupClosed:
		return http.StatusBadRequest
	case identity.KindInvalidCredentials:
		return http.StatusUnauthorized
	case identity.KindNetworkError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) locale(r *http.Request) string {
	return middleware.LocaleFromContext(r.Context())
}

func (a *App) session(r *http.Request) domain.Session {
	return middleware.SessionFromRequest(r)
}
