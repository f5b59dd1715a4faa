package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"garmentgrid/internal/domain"
)

const (
	tokenIssuer   = "garmentgrid"
	tokenAudience = "garmentgrid-web"
)

// TokenClaims identifies a client session. Role and profile are not carried;
// they come from the resolved session.
type TokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token for an authenticated session.
func (t *TokenIssuer) Issue(s domain.Session) (string, time.Time, error) {
	if !s.Authenticated() || s.ID == "" {
		return "", time.Time{}, errors.New("token: session is not authenticated")
	}
	now := t.now()
	exp := now.Add(t.ttl)
	claims := TokenClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a token and returns its claims.
func (t *TokenIssuer) Parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.SessionID == "" {
		return nil, errors.New("parse token: missing session id")
	}
	return claims, nil
}
