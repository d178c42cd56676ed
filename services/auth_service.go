package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

// Имена claims, которые выпускает identity-сервис.
const (
	jwtClaimUserID = "user_id"
	jwtClaimID     = "id"
)

// IdentityResolver turns a bearer token into the calling user.
type IdentityResolver interface {
	ResolveCaller(ctx context.Context, token string) (*models.Identity, error)
}

type jwtIdentityResolver struct {
	secret   []byte
	userRepo repositories.UserRepository
}

func NewIdentityResolver(secret string, userRepo repositories.UserRepository) IdentityResolver {
	return &jwtIdentityResolver{secret: []byte(secret), userRepo: userRepo}
}

func (r *jwtIdentityResolver) ResolveCaller(ctx context.Context, tokenString string) (*models.Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ErrAuthenticationFailed)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrAuthenticationFailed)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrAuthenticationFailed)
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d no longer exists", ErrAuthenticationFailed, userID)
		}
		return nil, err
	}

	return &models.Identity{UserID: user.ID, Username: user.Username}, nil
}

func userIDFromClaims(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims[jwtClaimUserID]
	if !ok {
		raw, ok = claims[jwtClaimID]
	}
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	var id int64
	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimUserID, v)
		}
		id = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim %q", jwtClaimUserID, v)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number or string, got %T", jwtClaimUserID, raw)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, id)
	}
	return id, nil
}
