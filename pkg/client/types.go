package client

import (
	"time"

	"github.com/intlakaa/pkg/seo"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Role               Role       `json:"role"`
	MustChangePassword bool       `json:"mustChangePassword"`
	LastSignInAt       *time.Time `json:"lastSignInAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func (u *User) IsOwner() bool {
	return u != nil && u.Role == RoleOwner
}

type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	StoreURL     string    `json:"storeUrl"`
	MonthlySales string    `json:"monthlySales"`
	IPAddress    *string   `json:"ipAddress"`
	Country      *string   `json:"country"`
	PhoneCountry *string   `json:"phoneCountry"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LeadInput is a public form submission. The optional fields are filled in
// best-effort.
type LeadInput struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	StoreURL     string `json:"storeUrl" validate:"required"`
	MonthlySales string `json:"monthlySales" validate:"required"`
	IPAddress    string `json:"ipAddress,omitempty"`
	Country      string `json:"country,omitempty"`
	PhoneCountry string `json:"phoneCountry,omitempty"`
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type LeadPage struct {
	Data       []Lead `json:"data"`
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

type LeadStats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"thisMonth"`
	Today     int `json:"today"`
}

// SeoSettings is the stored settings record as served by the API.
type SeoSettings struct {
	seo.Settings
	UpdatedAt time.Time `json:"updatedAt"`
}

// Confirm is asked before a destructive call. Returning false cancels it.
type Confirm func(prompt string) bool

// Yes confirms unconditionally; for callers that confirmed out of band.
func Yes(string) bool { return true }
