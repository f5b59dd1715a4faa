package handlers

import (
	"net/http"
	"strconv"

	"garmentgrid/internal/i18n"
	"garmentgrid/internal/validation"
)

func (a *App) BookingsCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.productID(w, r)
	if !ok {
		return
	}
	var form validation.BookingForm
	if !a.decode(w, r, &form) {
		return
	}
	b, err := a.Bookings.Place(r.Context(), a.session(r).UserID, id, form)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusCreated, map[string]any{
		"booking": b,
		"message": i18n.T(a.locale(r), i18n.BookingPlaced, b.Quantity, b.ProductName),
	})
}

// BookingsQuote prices a quantity while the buyer is still editing the form.
func (a *App) BookingsQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := strconv.ParseInt(q.Get("productId"), 10, 64)
	if err != nil || id <= 0 {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid productId")
		return
	}
	quote, err := a.Bookings.Quote(r.Context(), id, queryInt(q.Get("quantity"), 0))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, quote)
}
