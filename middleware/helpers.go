package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/pong-ledger/models"
)

type contextKey string

const userContextKey contextKey = "user"

var ErrNoIdentity = errors.New("user identity not found in context")

func GetIdentityFromContext(ctx context.Context) (*models.Identity, error) {
	identity, ok := ctx.Value(userContextKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

func GetUserIDFromContext(ctx context.Context) (int64, error) {
	identity, err := GetIdentityFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return identity.UserID, nil
}
