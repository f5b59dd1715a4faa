package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/identity"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "gg_session"

type sessionContextKey struct{}

// SessionResolver resolves a client session id to its current state.
type SessionResolver interface {
	Current(ctx context.Context, sessionID string) (domain.Session, error)
}

// Session resolves the caller's session from a bearer token or the session
// cookie and stores it in the request context. Requests without a valid
// token continue as Anonymous. A valid token that cannot be resolved right
// now leaves the session Unknown, so guarded routes answer "loading" rather
// than sending a signed-in user to the login page.
func Session(tokens *identity.TokenIssuer, resolver SessionResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := domain.AnonymousSession()
			if raw := SessionToken(r); raw != "" {
				claims, err := tokens.Parse(raw)
				if err != nil {
					logger.Debug().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("ignoring invalid session token")
				} else if resolved, err := resolver.Current(r.Context(), claims.SessionID); err != nil {
					logger.Warn().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("resolve session failed")
					s = domain.UnknownSession()
					s.ID = claims.SessionID
				} else {
					s = resolved
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), s)))
		})
	}
}

// SessionToken returns the raw token from the Authorization header or the
// session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func ContextWithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the resolved session, Anonymous when absent.
func SessionFromContext(ctx context.Context) domain.Session {
	if s, ok := ctx.Value(sessionContextKey{}).(domain.Session); ok {
		return s
	}
	return domain.AnonymousSession()
}

// SessionFromRequest is SessionFromContext for the request's context.
func SessionFromRequest(r *http.Request) domain.Session {
	return SessionFromContext(r.Context())
}
