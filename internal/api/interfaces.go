package api

import (
	"context"
	"time"

	"github.com/intlakaa/internal/mailer"
	"github.com/intlakaa/internal/model"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ValidatePassword(user *model.User, password string) bool
	TouchSignIn(ctx context.Context, userID string) error
	SetPassword(ctx context.Context, userID, password string) (*model.User, error)
	UpdateRole(ctx context.Context, actorID, targetID string, role model.UserRole) (*model.User, error)
	Delete(ctx context.Context, actorID, targetID string) error
}

type InviteStore interface {
	Create(ctx context.Context, email, createdBy string, lifetime time.Duration) (*model.User, string, error)
	Accept(ctx context.Context, token, password string) (*model.User, error)
}

type LeadStore interface {
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	List(ctx context.Context, q model.LeadQuery) ([]model.Lead, int, error)
	All(ctx context.Context) ([]model.Lead, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, now time.Time) (*model.LeadStats, error)
}

type SeoStore interface {
	Get(ctx context.Context) (*model.SeoSettings, error)
	Save(ctx context.Context, s *model.SeoSettings) (*model.SeoSettings, error)
}

type InviteMailer interface {
	SendInvite(ctx context.Context, inv mailer.Invite) error
}

// CountryLocator resolves a client IP to a country name.
type CountryLocator interface {
	Country(ctx context.Context, ip string) (string, error)
}

type TokenIssuer interface {
	GenerateToken(user *model.User) (string, int64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
