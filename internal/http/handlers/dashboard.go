package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/guard"
	"garmentgrid/internal/i18n"
)

// Dashboard serves /v1/dashboard and its sections, gated per role.
func (a *App) Dashboard(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	route, err := guard.DashboardSection(section)
	if err != nil {
		if errors.Is(err, guard.ErrNotFound) {
			a.error(w, r, http.StatusNotFound, "not_found", i18n.T(a.locale(r), i18n.RouteNotFound))
			return
		}
		a.fail(w, r, err)
		return
	}
	s := a.session(r)
	if d := guard.Decide(s, route, route.Path); d.Outcome != guard.Allow {
		guard.Respond(w, r, d)
		return
	}

	data, err := a.dashboardData(r, section, s)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, map[string]any{
		"section": route.Path,
		"title":   route.Name,
		"sidebar": guard.NavigationFor(s).Sidebar,
		"data":    data,
	})
}

func (a *App) dashboardData(r *http.Request, section string, s domain.Session) (any, error) {
	ctx := r.Context()
	switch section {
	case "", "profile":
		return s, nil
	case "my-orders", "track-order":
		return a.Bookings.Mine(ctx, s.UserID)
	case "pending-orders":
		return a.Bookings.ByStatus(ctx, domain.BookingStatusPending)
	case "approved-orders":
		return a.Bookings.ByStatus(ctx, domain.BookingStatusApproved)
	case "all-orders":
		var all []domain.Booking
		for _, status := range []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusApproved, domain.BookingStatusRejected} {
			items, err := a.Bookings.ByStatus(ctx, status)
			if err != nil {
				return nil, err
			}
			all = append(all, items...)
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		return all, nil
	case "all-products", "my-products":
		return a.Catalog.Browse(ctx, r.URL.Query().Get("q"), queryInt(r.URL.Query().Get("page"), 1), 0)
	}
	return nil, nil
}
