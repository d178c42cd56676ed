package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// pick returns exec when the caller runs inside a transaction, the base handle otherwise.
func pick(ctx context.Context, db, exec *gorm.DB) *gorm.DB {
	if exec != nil {
		return exec.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func checkAffectedRows(result *gorm.DB, notFoundError error) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// uniqueViolation reports whether err is a unique constraint failure and, when the
// driver exposes it, which constraint or columns were involved.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" { // unique_violation
			return pqErr.Constraint, true
		}
		return "", false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	// sqlite: "UNIQUE constraint failed: tournament_participants.tournament_id, tournament_participants.alias"
	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed:"); idx >= 0 {
		return strings.TrimSpace(msg[idx+len("UNIQUE constraint failed:"):]), true
	}
	return "", false
}
