package handlers

import (
	"net/http"
	"time"

	"garmentgrid/internal/validation"
)

const (
	themeCookie  = "theme"
	defaultTheme = "light"
)

func (a *App) ThemeGet(w http.ResponseWriter, r *http.Request) {
	theme := defaultTheme
	if c, err := r.Cookie(themeCookie); err == nil && (c.Value == "dark" || c.Value == "light") {
		theme = c.Value
	}
	a.json(w, r, http.StatusOK, validation.ThemeForm{Theme: theme})
}

func (a *App) ThemePut(w http.ResponseWriter, r *http.Request) {
	var form validation.ThemeForm
	if !a.decode(w, r, &form) {
		return
	}
	if err := a.Validator.Validate(form); err != nil {
		a.fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    form.Theme,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, r, http.StatusOK, form)
}
