package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/intlakaa/internal/logging"
	"github.com/intlakaa/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Deps wires the handler to its collaborators.
type Deps struct {
	Users   UserStore
	Invites InviteStore
	Leads   LeadStore
	Seo     SeoStore
	Mailer  InviteMailer
	Geo     CountryLocator
	Tokens  TokenIssuer
	DB      Pinger
	Logger  *logging.Logger

	PublicURL      string
	SiteDir        string
	InviteLifetime time.Duration
	Location       *time.Location
}

// Handler contains all API handlers
type Handler struct {
	users   UserStore
	invites InviteStore
	leads   LeadStore
	seo     SeoStore
	mailer  InviteMailer
	geo     CountryLocator
	tokens  TokenIssuer
	db      Pinger
	logger  *logging.Logger

	publicURL      string
	siteDir        string
	inviteLifetime time.Duration
	loc            *time.Location
	now            func() time.Time
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	lifetime := d.InviteLifetime
	if lifetime <= 0 {
		lifetime = 48 * time.Hour
	}
	return &Handler{
		users:          d.Users,
		invites:        d.Invites,
		leads:          d.Leads,
		seo:            d.Seo,
		mailer:         d.Mailer,
		geo:            d.Geo,
		tokens:         d.Tokens,
		db:             d.DB,
		logger:         logger,
		publicURL:      d.PublicURL,
		siteDir:        d.SiteDir,
		inviteLifetime: lifetime,
		loc:            loc,
		now:            time.Now,
	}
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	middleware.WriteError(w, status, message)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Success: true, Message: message})
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, msgRequiredFields)
			return false
		}
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	respondError(w, http.StatusInternalServerError, msgServerError)
}

// Health godoc
// @Summary Health check
// @Description Reports service and database health
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":   "healthy",
		"database": "healthy",
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unhealthy"
			respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}

	respondJSON(w, http.StatusOK, status)
}

// NotFound answers unknown API paths with the standard error body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, msgNotFound)
}
