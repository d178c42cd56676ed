package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/pong-ledger/repositories"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestResolveCaller(t *testing.T) {
	gdb := newTestDB(t)
	alice := seedUser(t, gdb, "alice")
	resolver := NewIdentityResolver(testSecret, repositories.NewUserRepository(gdb))
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"numeric user_id", signToken(t, testSecret, jwt.MapClaims{"user_id": alice.ID, "exp": exp}), false},
		{"string user_id", signToken(t, testSecret, jwt.MapClaims{"user_id": strconv.FormatInt(alice.ID, 10), "exp": exp}), false},
		{"id claim", signToken(t, testSecret, jwt.MapClaims{"id": alice.ID, "exp": exp}), false},
		{"empty", "", true},
		{"garbage", "not-a-token", true},
		{"wrong secret", signToken(t, "other", jwt.MapClaims{"user_id": alice.ID, "exp": exp}), true},
		{"expired", signToken(t, testSecret, jwt.MapClaims{"user_id": alice.ID, "exp": time.Now().Add(-time.Hour).Unix()}), true},
		{"missing claim", signToken(t, testSecret, jwt.MapClaims{"sub": "alice", "exp": exp}), true},
		{"unknown user", signToken(t, testSecret, jwt.MapClaims{"user_id": 9999, "exp": exp}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := resolver.ResolveCaller(context.Background(), tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrAuthenticationFailed) {
					t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveCaller: %v", err)
			}
			if identity.UserID != alice.ID || identity.Username != "alice" {
				t.Fatalf("unexpected identity: %+v", identity)
			}
		})
	}
}
