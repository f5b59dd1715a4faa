package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"garmentgrid/internal/catalog"
)

func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	perPage := queryInt(q.Get("per_page"), catalog.DefaultPerPage)
	if perPage > 50 {
		perPage = 50
	}
	result, err := a.Catalog.Browse(r.Context(), q.Get("q"), page, perPage)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, result)
}

func (a *App) ProductsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.productID(w, r)
	if !ok {
		return
	}
	p, err := a.Catalog.Product(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, p)
}

func (a *App) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid product id")
		return 0, false
	}
	return id, true
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
