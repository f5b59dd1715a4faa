package handlers

import (
	"errors"
	"net/http"

	"garmentgrid/internal/guard"
	"garmentgrid/internal/i18n"
)

type routeDTO struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Role       string `json:"role,omitempty"`
}

func (a *App) Navigation(w http.ResponseWriter, r *http.Request) {
	a.json(w, r, http.StatusOK, guard.NavigationFor(a.session(r)))
}

// RoutesResolve reports the guard decision for a client-side path so the
// browser can render, redirect or show the loading state.
func (a *App) RoutesResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	route, decision, err := guard.Resolve(a.session(r), path)
	if err != nil {
		if errors.Is(err, guard.ErrNotFound) {
			a.error(w, r, http.StatusNotFound, "not_found", i18n.T(a.locale(r), i18n.RouteNotFound))
			return
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, map[string]any{
		"route": routeDTO{
			Path:       route.Path,
			Name:       route.Name,
			Visibility: route.Visibility.String(),
			Role:       string(route.Role),
		},
		"decision": decision,
	})
}
