package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intlakaa/internal/model"
)

type InviteRepository struct {
	db *Database
}

func NewInviteRepository(db *Database) *InviteRepository {
	return &InviteRepository{db: db}
}

// HashToken returns the hex SHA-256 under which an invite token is stored.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Create registers a pending admin account for email together with a
// one-time invite. The plain token is returned once and never stored.
func (r *InviteRepository) Create(ctx context.Context, email, createdBy string, lifetime time.Duration) (*model.User, string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var user model.User
	query := `
		INSERT INTO users (id, email, role, must_change_password)
		VALUES ($1, lower($2), $3, true)
		RETURNING ` + userColumns
	err = tx.QueryRowxContext(ctx, query, uuid.NewString(), email, model.UserRoleAdmin).StructScan(&user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrConflict
		}
		return nil, "", fmt.Errorf("failed to create invited user: %w", err)
	}

	var creator *string
	if createdBy != "" {
		creator = &createdBy
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO invites (id, user_id, token_hash, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), user.ID, HashToken(token), time.Now().Add(lifetime), creator)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit invite: %w", err)
	}
	return &user, token, nil
}

// Accept consumes token and sets the account password in one transaction.
// Unknown, used and expired tokens all yield ErrInviteInvalid.
func (r *InviteRepository) Accept(ctx context.Context, token, password string) (*model.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var invite model.Invite
	err = tx.GetContext(ctx, &invite, `
		SELECT id, user_id, token_hash, expires_at, used_at, created_by, created_at
		FROM invites
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		FOR UPDATE
	`, HashToken(token), time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteInvalid
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE invites SET used_at = $1 WHERE id = $2`, time.Now(), invite.ID); err != nil {
		return nil, fmt.Errorf("failed to consume invite: %w", err)
	}

	user, err := setPassword(ctx, tx, invite.UserID, password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInviteInvalid
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invite acceptance: %w", err)
	}
	return user, nil
}

// PurgeExpired removes accounts that never accepted their invite and whose
// invites have all expired, then drops the expired invites themselves.
func (r *InviteRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM users u
		WHERE u.password_hash IS NULL
		  AND NOT EXISTS (
		    SELECT 1 FROM invites i
		    WHERE i.user_id = u.id AND i.used_at IS NULL AND i.expires_at > $1
		  )
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge pending users: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invites WHERE used_at IS NULL AND expires_at <= $1`, now); err != nil {
		return 0, fmt.Errorf("failed to purge expired invites: %w", err)
	}

	return removed, tx.Commit()
}
