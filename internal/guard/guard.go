package guard

import (
	"net/url"

	"garmentgrid/internal/domain"
)

// Outcome is the guard's verdict for one navigation.
type Outcome string

const (
	Allow                  Outcome = "allow"
	RedirectToLogin        Outcome = "redirect_login"
	RedirectToUnauthorized Outcome = "redirect_unauthorized"
	Loading                Outcome = "loading"
)

// Decision is an Outcome plus where to send the user for redirects.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
}

// Decide applies the route policy to a session. requested is the path the
// user asked for; it is carried in the login redirect as ?next=.
//
// Public routes are always allowed. While the session is still Unknown any
// other route yields Loading so that a page reload does not flash a redirect.
// Admins pass every role check.
func Decide(s domain.Session, r Route, requested string) Decision {
	if r.Visibility == Public {
		return Decision{Outcome: Allow}
	}
	if s.State == domain.SessionUnknown || s.IsLoading {
		return Decision{Outcome: Loading}
	}
	if !s.Authenticated() {
		if requested == "" {
			requested = r.Path
		}
		return Decision{Outcome: RedirectToLogin, Redirect: LoginPath + "?next=" + url.QueryEscape(requested)}
	}
	if r.Visibility == RoleRestricted && !HasRole(s, r.Role) {
		return Decision{Outcome: RedirectToUnauthorized, Redirect: UnauthorizedPath}
	}
	return Decision{Outcome: Allow}
}

// HasRole reports whether the session may act as role.
func HasRole(s domain.Session, role domain.UserRole) bool {
	if !s.Authenticated() {
		return false
	}
	return s.Role == role || s.Role == domain.UserRoleAdmin
}

// Resolve looks path up and decides it in one step.
func Resolve(s domain.Session, path string) (Route, Decision, error) {
	r, err := Lookup(path)
	if err != nil {
		return Route{}, Decision{}, err
	}
	return r, Decide(s, r, path), nil
}
