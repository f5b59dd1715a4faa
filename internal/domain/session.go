package domain

// SessionState is the lifecycle position of a client session.
type SessionState string

const (
	SessionUnknown       SessionState = "unknown"
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// Session is the view of "who is logged in" shared by every consumer of one
// client session.
type Session struct {
	ID          string       `json:"-"`
	State       SessionState `json:"state"`
	UserID      string       `json:"user_id,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Email       string       `json:"email,omitempty"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	Role        UserRole     `json:"role,omitempty"`
	Status      UserStatus   `json:"status,omitempty"`
	IsLoading   bool         `json:"is_loading"`
}

// UnknownSession is the initial value before the identity provider has
// reported anything.
func UnknownSession() Session {
	return Session{State: SessionUnknown, IsLoading: true}
}

// AnonymousSession is the resolved value when nobody is signed in.
func AnonymousSession() Session {
	return Session{State: SessionAnonymous}
}

// AuthenticatedSession builds the session for a signed-in user.
func AuthenticatedSession(sessionID string, u User) Session {
	role := u.Role
	if !role.Valid() {
		role = UserRoleBuyer
	}
	return Session{
		ID:          sessionID,
		State:       SessionAuthenticated,
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		Role:        role,
		Status:      ParseUserStatus(string(u.Status)),
	}
}

// Authenticated reports whether a user is present.
func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated && s.UserID != ""
}
