// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnknownKey is returned when a token names a key the issuer does not publish.
var ErrUnknownKey = errors.New("google: unknown signing key")

const keysMaxAge = time.Hour

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Verifier checks Google ID tokens against the issuer's published signing keys.
type Verifier struct {
	issuer     string
	clientID   string
	httpClient *http.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

func NewVerifier(issuer, clientID string) *Verifier {
	return &Verifier{
		issuer:     strings.TrimRight(issuer, "/"),
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// VerifyIDToken checks signature, issuer, audience and expiry and returns the
// token claims.
func (v *Verifier) VerifyIDToken(ctx context.Context, token string) (map[string]any, error) {
	if err := v.ensureKeys(ctx); err != nil {
		return nil, err
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if key, ok := v.keyFor(kid); ok {
			return key, nil
		}
		// Google rotates keys; one refetch before giving up.
		if err := v.refresh(ctx); err != nil {
			return nil, err
		}
		if key, ok := v.keyFor(kid); ok {
			return key, nil
		}
		return nil, ErrUnknownKey
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("google: verify id token: %w", err)
	}
	iss, _ := claims.GetIssuer()
	if !v.issuerMatches(iss) {
		return nil, fmt.Errorf("google: unexpected issuer %q", iss)
	}
	return claims, nil
}

// issuerMatches accepts the issuer with or without its https:// scheme;
// Google uses both forms.
func (v *Verifier) issuerMatches(iss string) bool {
	bare := strings.TrimPrefix(v.issuer, "https://")
	return iss == v.issuer || iss == bare || "https://"+iss == v.issuer
}

func (v *Verifier) ensureKeys(ctx context.Context) error {
	v.mu.RLock()
	fresh := time.Since(v.fetched) < keysMaxAge && len(v.keys) > 0
	v.mu.RUnlock()
	if fresh {
		return nil
	}
	return v.refresh(ctx)
}

func (v *Verifier) refresh(ctx context.Context) error {
	var discovery struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := v.getJSON(ctx, v.issuer+"/.well-known/openid-configuration", &discovery); err != nil {
		return err
	}
	if discovery.JWKSURI == "" {
		return errors.New("google: discovery document has no jwks_uri")
	}
	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := v.getJSON(ctx, discovery.JWKSURI, &set); err != nil {
		return err
	}
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("google: no usable signing keys")
	}
	v.mu.Lock()
	v.keys = keys
	v.fetched = time.Now()
	v.mu.Unlock()
	return nil
}

func (v *Verifier) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google: fetch %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (v *Verifier) keyFor(kid string) (*rsa.PublicKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	pk, ok := v.keys[kid]
	return pk, ok
}

func rsaKeyFromJWK(j jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, err
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() == 0 || exp.Int64() > 1<<31-1 {
		return nil, errors.New("google: invalid rsa exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
