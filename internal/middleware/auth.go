package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/intlakaa/internal/config"
	"github.com/intlakaa/internal/model"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserFinder loads the live account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type claims struct {
	UserID  string         `json:"user_id"`
	Email   string         `json:"email"`
	Role    model.UserRole `json:"role"`
	Version int            `json:"ver"`
	jwt.RegisteredClaims
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtSecret []byte
	users     UserFinder
	expHours  int
}

func NewAuthMiddleware(cfg config.JWTConfig, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: []byte(cfg.Secret),
		users:     users,
		expHours:  cfg.ExpirationHours,
	}
}

// Authenticate validates the bearer token and reloads the user. A token is
// rejected when its account is gone or its version is stale.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		tc, err := m.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		user, err := m.users.FindByID(r.Context(), tc.UserID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "حدث خطأ في الخادم")
			return
		}
		if user == nil || user.TokenVersion != tc.Version {
			WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole admits only users whose current role is one of roles.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}
			if !slices.Contains(roles, user.Role) {
				WriteError(w, http.StatusForbidden, MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GenerateToken creates a new JWT token
func (m *AuthMiddleware) GenerateToken(user *model.User) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(m.expHours) * time.Hour)

	c := claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Version: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := token.SignedString(m.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return tokenStr, expiresAt.Unix(), nil
}

// ValidateToken validates a JWT token and returns claims
func (m *AuthMiddleware) ValidateToken(tokenStr string) (*model.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || c.UserID == "" {
		return nil, errors.New("invalid token")
	}

	return &model.TokenClaims{
		UserID:  c.UserID,
		Email:   c.Email,
		Role:    c.Role,
		Version: c.Version,
	}, nil
}

// GetUserFromContext returns the authenticated user loaded by Authenticate.
func GetUserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(UserContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser stores user in ctx the way Authenticate does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
