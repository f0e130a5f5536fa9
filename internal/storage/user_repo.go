package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intlakaa/internal/model"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, email, password_hash, role, must_change_password, token_version, last_sign_in_at, created_at, updated_at`

type UserRepository struct {
	db *Database
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// dummyHash is compared against when there is no usable hash, so unknown
// and pending accounts take as long to reject as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("intlakaa-no-account"), bcrypt.DefaultCost)

var compareHash = bcrypt.CompareHashAndPassword

// ValidatePassword is false for accounts whose invite is still pending.
func (r *UserRepository) ValidatePassword(user *model.User, password string) bool {
	if user == nil || user.Pending() {
		compareHash(dummyHash, []byte(password))
		return false
	}
	return compareHash([]byte(*user.PasswordHash), []byte(password)) == nil
}

func (r *UserRepository) TouchSignIn(ctx context.Context, userID string) error {
	query := `UPDATE users SET last_sign_in_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), userID)
	return err
}

// SetPassword stores a new password, clears must_change_password and bumps
// token_version so every previously issued token stops working.
func (r *UserRepository) SetPassword(ctx context.Context, userID, password string) (*model.User, error) {
	return setPassword(ctx, r.db, userID, password)
}

func setPassword(ctx context.Context, q sqlx.QueryerContext, userID, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user model.User
	query := `
		UPDATE users
		SET password_hash = $1, must_change_password = false, token_version = token_version + 1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns
	err = q.QueryRowxContext(ctx, query, string(hashed), time.Now(), userID).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set password: %w", err)
	}
	return &user, nil
}

// UpdateRole changes the role of targetID on behalf of actorID. Demoting the
// last owner fails with ErrLastOwner and touching one's own account with
// ErrSelfModify.
func (r *UserRepository) UpdateRole(ctx context.Context, actorID, targetID string, role model.UserRole) (*model.User, error) {
	if actorID == targetID {
		return nil, ErrSelfModify
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := lockUser(ctx, tx, targetID)
	if err != nil {
		return nil, err
	}
	if current == model.UserRoleOwner && role != model.UserRoleOwner {
		if err := ensureAnotherOwner(ctx, tx, targetID); err != nil {
			return nil, err
		}
	}

	var user model.User
	query := `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3 RETURNING ` + userColumns
	if err := tx.QueryRowxContext(ctx, query, role, time.Now(), targetID).StructScan(&user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit role update: %w", err)
	}
	return &user, nil
}

// Delete removes targetID on behalf of actorID with the same owner rules as
// UpdateRole.
func (r *UserRepository) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfModify
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := lockUser(ctx, tx, targetID)
	if err != nil {
		return err
	}
	if current == model.UserRoleOwner {
		if err := ensureAnotherOwner(ctx, tx, targetID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return tx.Commit()
}

// EnsureOwner creates the bootstrap owner or promotes an existing account
// with that e-mail. An existing password is kept.
func (r *UserRepository) EnsureOwner(ctx context.Context, email, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user model.User
	query := `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, lower($2), $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET role = EXCLUDED.role,
		    password_hash = COALESCE(users.password_hash, EXCLUDED.password_hash),
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + userColumns
	err = r.db.QueryRowxContext(ctx, query, uuid.NewString(), email, string(hashed), model.UserRoleOwner).
		StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure owner: %w", err)
	}
	return &user, nil
}

func lockUser(ctx context.Context, tx *sqlx.Tx, id string) (model.UserRole, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	var role model.UserRole
	err := tx.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to lock user: %w", err)
	}
	return role, nil
}

// ensureAnotherOwner locks every owner row so two concurrent demotions
// cannot both pass the check.
func ensureAnotherOwner(ctx context.Context, tx *sqlx.Tx, excludeID string) error {
	var owners []string
	err := tx.SelectContext(ctx, &owners, `SELECT id FROM users WHERE role = $1 FOR UPDATE`, model.UserRoleOwner)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	for _, id := range owners {
		if id != excludeID {
			return nil
		}
	}
	return ErrLastOwner
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
