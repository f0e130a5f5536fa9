package api

import (
	"bytes"
	"errors"
	"html"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/intlakaa/internal/export"
	"github.com/intlakaa/internal/geo"
	"github.com/intlakaa/internal/metrics"
	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/intlakaa/internal/storage"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitize strips every tag and returns plain text.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// CreateRequest godoc
// @Summary Submit a lead
// @Description Public form submission. IP, country and phone country are filled in best-effort.
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body model.CreateLeadRequest true "Lead details"
// @Success 201 {object} dataResponse
// @Failure 400 {object} messageResponse
// @Failure 429 {object} messageResponse
// @Router /requests [post]
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLeadRequest
	if !decode(w, r, &req) {
		return
	}

	lead := &model.Lead{
		Name:         sanitize(req.Name),
		Phone:        sanitize(req.Phone),
		StoreURL:     sanitize(req.StoreURL),
		MonthlySales: sanitize(req.MonthlySales),
	}
	if lead.Name == "" || lead.Phone == "" || lead.StoreURL == "" || lead.MonthlySales == "" {
		respondError(w, http.StatusBadRequest, msgRequiredFields)
		return
	}

	ip := strings.TrimSpace(req.IPAddress)
	if net.ParseIP(ip) == nil {
		ip = middleware.ClientIP(r)
	}
	if ip != "" {
		lead.IPAddress = &ip
	}

	country := sanitize(req.Country)
	if country == "" && h.geo != nil {
		found, err := h.geo.Country(r.Context(), ip)
		if err != nil {
			h.logger.Warnw("country lookup failed", "ip", ip, "error", err)
		}
		country = found
	}
	if country != "" {
		lead.Country = &country
	}

	phoneCountry := sanitize(req.PhoneCountry)
	if phoneCountry == "" {
		phoneCountry = geo.PhoneCountry(lead.Phone)
	}
	if phoneCountry != "" {
		lead.PhoneCountry = &phoneCountry
	}

	created, err := h.leads.Create(r.Context(), lead)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	metrics.LeadsCreated.Inc()
	respondJSON(w, http.StatusCreated, struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    *model.Lead `json:"data"`
	}{true, msgRequestCreated, created})
}

// ListRequests godoc
// @Summary List leads
// @Description Paginated, newest first. search matches name or phone, case-insensitive.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)" default(1)
// @Param limit query int false "Page size (1-1000)" default(10)
// @Param search query string false "Name or phone substring"
// @Success 200 {object} model.LeadPage
// @Failure 401 {object} messageResponse
// @Router /requests [get]
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := model.LeadQuery{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}.Normalize()

	leads, count, err := h.leads.List(r.Context(), q)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, model.NewLeadPage(q, leads, count))
}

// DeleteRequest godoc
// @Summary Delete a lead
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /requests/{id} [delete]
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.leads.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgRequestNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	h.logger.Infow("request deleted", "id", id, "by", user.ID)
	respondMessage(w, http.StatusOK, msgRequestDeleted)
}

// ExportRequests godoc
// @Summary Export all leads
// @Description Full unpaginated set, newest first
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dataResponse
// @Router /requests/export [get]
func (h *Handler) ExportRequests(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.All(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Success: true, Data: leads})
}

// ExportRequestsXLSX godoc
// @Summary Export all leads as a spreadsheet
// @Tags Requests
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /requests/export.xlsx [get]
func (h *Handler) ExportRequestsXLSX(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.All(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLeadsXLSX(&buf, leads, h.loc); err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now().In(h.loc))+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// RequestStats godoc
// @Summary Dashboard counts
// @Description Total leads, leads this month and leads today in the configured timezone
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dataResponse
// @Router /requests/stats [get]
func (h *Handler) RequestStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leads.Stats(r.Context(), h.now().In(h.loc))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Success: true, Data: stats})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
