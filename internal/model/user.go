package model

import "time"

type UserRole string

const (
	UserRoleOwner UserRole = "owner"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleOwner || r == UserRoleAdmin
}

// User is an admin-panel account. PasswordHash is nil while an invite is
// pending.
type User struct {
	ID                 string     `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	PasswordHash       *string    `json:"-" db:"password_hash"`
	Role               UserRole   `json:"role" db:"role"`
	MustChangePassword bool       `json:"mustChangePassword" db:"must_change_password"`
	TokenVersion       int        `json:"-" db:"token_version"`
	LastSignInAt       *time.Time `json:"lastSignInAt,omitempty" db:"last_sign_in_at"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
}

func (u *User) IsOwner() bool {
	return u != nil && u.Role == UserRoleOwner
}

// Pending reports whether the account still waits for its invite to be
// accepted.
func (u *User) Pending() bool {
	return u.PasswordHash == nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,nefield=CurrentPassword"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=owner admin"`
}

type TokenClaims struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Role    UserRole `json:"role"`
	Version int      `json:"ver"`
}
