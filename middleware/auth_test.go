package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/services"
)

type stubResolver struct {
	tokens map[string]*models.Identity
	err    error
}

func (s stubResolver) ResolveCaller(_ context.Context, token string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if identity, ok := s.tokens[token]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("%w: unknown token", services.ErrAuthenticationFailed)
}

func TestAuthenticate(t *testing.T) {
	resolver := stubResolver{tokens: map[string]*models.Identity{"good": {UserID: 42, Username: "alice"}}}

	var seen *models.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentityFromContext(r.Context())
		if err != nil {
			t.Errorf("identity missing in downstream handler: %v", err)
		}
		seen = identity
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Authenticate(resolver)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid bearer", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusNoContent && (seen == nil || seen.UserID != 42) {
				t.Fatalf("unexpected identity: %+v", seen)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Fatal("expected WWW-Authenticate challenge")
			}
		})
	}
}

func TestAuthenticateResolverFailure(t *testing.T) {
	handler := Authenticate(stubResolver{err: errors.New("db down")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	if _, err := GetUserIDFromContext(context.Background()); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
	ctx := WithIdentity(context.Background(), &models.Identity{UserID: 7})
	id, err := GetUserIDFromContext(ctx)
	if err != nil || id != 7 {
		t.Fatalf("expected 7, got %d (%v)", id, err)
	}
}
