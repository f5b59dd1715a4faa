package identity

import (
	"context"
	"errors"
	"fmt"
	"net"

	"garmentgrid/internal/i18n"
)

// Provider-level failures. Providers return these (possibly wrapped); the
// Adapter folds them into an AuthError.
var (
	ErrEmailInUse         = errors.New("identity: email already in use")
	ErrWeakPassword       = errors.New("identity: weak password")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrPopupClosed        = errors.New("identity: consent flow closed")
	ErrInvalidIDToken     = errors.New("identity: invalid id token")
	ErrSessionNotFound    = errors.New("identity: session not found")
	ErrUnavailable        = errors.New("identity: provider unavailable")
)

// AuthErrorKind is the closed set of failures surfaced to users.
type AuthErrorKind string

const (
	KindEmailInUse         AuthErrorKind = "email_in_use"
	KindWeakPassword       AuthErrorKind = "weak_password"
	KindInvalidCredentials AuthErrorKind = "invalid_credentials"
	KindPopupClosed        AuthErrorKind = "popup_closed"
	KindNetworkError       AuthErrorKind = "network_error"
	KindUnknown            AuthErrorKind = "unknown"
)

// AuthError is the normalized failure of an authentication operation.
type AuthError struct {
	Op   string
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the humanized notification for the error in locale.
func (e *AuthError) Message(locale string) string {
	return i18n.T(locale, messageKey(e.Kind))
}

func messageKey(kind AuthErrorKind) string {
	switch kind {
	case KindEmailInUse:
		return i18n.AuthEmailInUse
	case KindWeakPassword:
		return i18n.AuthWeakPassword
	case KindInvalidCredentials:
		return i18n.AuthInvalidCredentials
	case KindPopupClosed:
		return i18n.AuthPopupClosed
	case KindNetworkError:
		return i18n.AuthNetworkError
	default:
		return i18n.AuthUnknown
	}
}

// AsAuthError extracts an AuthError from err.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func classify(err error) AuthErrorKind {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrEmailInUse):
		return KindEmailInUse
	case errors.Is(err, ErrWeakPassword):
		return KindWeakPassword
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrPopupClosed):
		return KindPopupClosed
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return KindNetworkError
	default:
		return KindUnknown
	}
}

// normalize wraps err as an AuthError whose kind is limited to allowed;
// anything else becomes KindUnknown.
func normalize(op string, err error, allowed ...AuthErrorKind) *AuthError {
	kind := classify(err)
	if kind != KindNetworkError && kind != KindUnknown {
		ok := false
		for _, k := range allowed {
			if k == kind {
				ok = true
				break
			}
		}
		if !ok {
			kind = KindUnknown
		}
	}
	return &AuthError{Op: op, Kind: kind, Err: err}
}
