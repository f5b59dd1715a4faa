// Package identity wraps the identity service that owns accounts, passwords,
// federated sign-in and provider-side sessions, and normalizes its results
// for the rest of the application.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"garmentgrid/internal/domain"
)

// MinPasswordLength is the provider-side password floor.
const MinPasswordLength = 6

// Provider is the identity service boundary.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID, displayName, photoURL string, role domain.UserRole) (domain.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (domain.User, error)
	SignInWithIDToken(ctx context.Context, idToken string) (domain.User, error)
	StartSession(ctx context.Context, userID string) (SessionRecord, error)
	LookupSession(ctx context.Context, sessionID string) (SessionRecord, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	SignOut(ctx context.Context, sessionID string) error
}

// IDTokenVerifier validates a federated ID token and returns its claims.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// LocalProvider is the managed identity service: accounts in the user
// repository, bcrypt password hashes, Google ID tokens and session records.
type LocalProvider struct {
	users      domain.UserRepository
	sessions   SessionStore
	verifier   IDTokenVerifier
	sessionTTL time.Duration
	now        func() time.Time
}

// NewLocalProvider wires a LocalProvider. verifier may be nil when Google
// sign-in is not configured.
func NewLocalProvider(users domain.UserRepository, sessions SessionStore, verifier IDTokenVerifier, sessionTTL time.Duration) *LocalProvider {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &LocalProvider{
		users:      users,
		sessions:   sessions,
		verifier:   verifier,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if len([]rune(password)) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}
	if _, err := p.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailInUse
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := p.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         domain.UserRoleBuyer,
		Status:       domain.UserStatusPending,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, ErrEmailInUse
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return *created, nil
}

func (p *LocalProvider) UpdateProfile(ctx context.Context, userID, displayName, photoURL string, role domain.UserRole) (domain.User, error) {
	if !role.SelfAssignable() {
		role = domain.UserRoleBuyer
	}
	u, err := p.users.UpdateProfile(ctx, userID, strings.TrimSpace(displayName), strings.TrimSpace(photoURL), role)
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return *u, nil
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (domain.User, error) {
	u, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}
	if !u.HasPassword() {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return *u, nil
}

func (p *LocalProvider) SignInWithIDToken(ctx context.Context, idToken string) (domain.User, error) {
	if strings.TrimSpace(idToken) == "" {
		return domain.User{}, ErrPopupClosed
	}
	if p.verifier == nil {
		return domain.User{}, fmt.Errorf("google sign-in not configured: %w", ErrUnavailable)
	}
	claims, err := p.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.User{}, fmt.Errorf("verify id token: %w", err)
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	if sub == "" || email == "" {
		return domain.User{}, ErrInvalidIDToken
	}
	u, err := p.users.UpsertByGoogleSub(ctx, &domain.User{
		ID:          uuid.NewString(),
		GoogleSub:   sub,
		Email:       normalizeEmail(email),
		DisplayName: name,
		PhotoURL:    picture,
		Role:        domain.UserRoleBuyer,
		Status:      domain.UserStatusPending,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("upsert google user: %w", err)
	}
	return *u, nil
}

func (p *LocalProvider) StartSession(ctx context.Context, userID string) (SessionRecord, error) {
	now := p.now()
	rec := SessionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(p.sessionTTL),
	}
	if err := p.sessions.Save(ctx, rec); err != nil {
		return SessionRecord{}, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

func (p *LocalProvider) LookupSession(ctx context.Context, sessionID string) (SessionRecord, error) {
	rec, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return SessionRecord{}, err
	}
	if !rec.ExpiresAt.IsZero() && p.now().After(rec.ExpiresAt) {
		return SessionRecord{}, ErrSessionNotFound
	}
	return rec, nil
}

func (p *LocalProvider) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return *u, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, sessionID string) error {
	return p.sessions.Delete(ctx, sessionID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Provider = (*LocalProvider)(nil)
