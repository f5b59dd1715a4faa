package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		allowed []AuthErrorKind
		want    AuthErrorKind
	}{
		{name: "allowed kind", err: fmt.Errorf("wrap: %w", ErrEmailInUse), allowed: []AuthErrorKind{KindEmailInUse}, want: KindEmailInUse},
		{name: "kind outside op", err: ErrEmailInUse, allowed: []AuthErrorKind{KindInvalidCredentials}, want: KindUnknown},
		{name: "deadline", err: context.DeadlineExceeded, want: KindNetworkError},
		{name: "unavailable", err: errors.Join(ErrUnavailable, errors.New("dial tcp")), want: KindNetworkError},
		{name: "anything else", err: errors.New("boom"), want: KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ae := normalize("op", tc.err, tc.allowed...)
			if ae.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", ae.Kind, tc.want)
			}
			if !errors.Is(ae, tc.err) {
				t.Fatalf("AuthError should wrap the cause")
			}
		})
	}
}

func TestAuthErrorMessageLocalized(t *testing.T) {
	ae := &AuthError{Op: "login", Kind: KindInvalidCredentials}
	if ae.Message("en") == ae.Message("bn") {
		t.Fatalf("expected distinct en and bn messages")
	}
}
