package handlers

import (
	"context"
	"net/http"
	"time"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/i18n"
	"garmentgrid/internal/identity"
	"garmentgrid/internal/middleware"
	"garmentgrid/internal/validation"
)

const authTimeout = 10 * time.Second

type googleSignInRequest struct {
	IDToken string `json:"id_token"`
}

type authResponse struct {
	Token     string         `json:"token,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Session   domain.Session `json:"session"`
	Message   string         `json:"message"`
}

func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var form validation.RegisterForm
	if !a.decode(w, r, &form) {
		return
	}
	if err := a.Validator.Validate(form); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()
	s, err := a.Auth.Register(ctx, identity.Credentials{
		Email:       form.Email,
		Password:    form.Password,
		DisplayName: form.Name,
		PhotoURL:    form.PhotoURL,
		Role:        domain.ParseUserRole(form.Role),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.signedIn(w, r, http.StatusCreated, s, i18n.AuthRegistered)
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var form validation.LoginForm
	if !a.decode(w, r, &form) {
		return
	}
	if err := a.Validator.Validate(form); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()
	s, err := a.Auth.Login(ctx, form.Email, form.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.signedIn(w, r, http.StatusOK, s, i18n.AuthWelcome)
}

// AuthGoogle completes Google sign-in with the ID token obtained by the
// browser. A missing token means the consent popup was closed.
func (a *App) AuthGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if !a.decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()
	s, err := a.Auth.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.signedIn(w, r, http.StatusOK, s, i18n.AuthGoogleWelcome)
}

// AuthLogout always succeeds, including when nobody is signed in.
func (a *App) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if s := a.session(r); s.ID != "" {
		a.Auth.Logout(r.Context(), s.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, r, http.StatusOK, authResponse{
		Session: domain.AnonymousSession(),
		Message: i18n.T(a.locale(r), i18n.AuthLoggedOut),
	})
}

func (a *App) AuthSession(w http.ResponseWriter, r *http.Request) {
	a.json(w, r, http.StatusOK, a.session(r))
}

func (a *App) signedIn(w http.ResponseWriter, r *http.Request, code int, s domain.Session, msgKey string) {
	token, exp, err := a.Tokens.Issue(s)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, r, code, authResponse{
		Token:     token,
		ExpiresAt: &exp,
		Session:   s,
		Message:   i18n.T(a.locale(r), msgKey),
	})
}
