package model

import (
	"math"
	"time"
)

// Lead is a prospective-customer request captured by the public form. Leads
// are never updated in place.
type Lead struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	StoreURL     string    `json:"storeUrl" db:"store_url"`
	MonthlySales string    `json:"monthlySales" db:"monthly_sales"`
	IPAddress    *string   `json:"ipAddress" db:"ip_address"`
	Country      *string   `json:"country" db:"country"`
	PhoneCountry *string   `json:"phoneCountry" db:"phone_country"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateLeadRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Phone        string `json:"phone" validate:"required,max=50"`
	StoreURL     string `json:"storeUrl" validate:"required,max=500"`
	MonthlySales string `json:"monthlySales" validate:"required,max=100"`
	IPAddress    string `json:"ipAddress,omitempty"`
	Country      string `json:"country,omitempty" validate:"max=100"`
	PhoneCountry string `json:"phoneCountry,omitempty" validate:"max=100"`
}

type LeadQuery struct {
	Page   int
	Limit  int
	Search string
}

const (
	DefaultLeadLimit = 10
	MaxLeadLimit     = 1000
)

// Normalize applies the paging defaults: page >= 1, 1 <= limit <= MaxLeadLimit.
// Page is capped so Offset cannot overflow; such a page is simply empty.
func (q LeadQuery) Normalize() LeadQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLeadLimit
	}
	if q.Limit > MaxLeadLimit {
		q.Limit = MaxLeadLimit
	}
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

func (q LeadQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type LeadPage struct {
	Success    bool   `json:"success"`
	Data       []Lead `json:"data"`
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// NewLeadPage builds a page; totalPages is ceil(count/limit).
func NewLeadPage(q LeadQuery, leads []Lead, count int) *LeadPage {
	if leads == nil {
		leads = []Lead{}
	}
	return &LeadPage{
		Success:    true,
		Data:       leads,
		Count:      count,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (count + q.Limit - 1) / q.Limit,
	}
}

type LeadStats struct {
	Total     int `json:"total" db:"total"`
	ThisMonth int `json:"thisMonth" db:"this_month"`
	Today     int `json:"today" db:"today"`
}
