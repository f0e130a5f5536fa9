package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/intlakaa/internal/model"
	"github.com/intlakaa/pkg/seo"
	"github.com/temoto/robotstxt"
)

// GetSeo godoc
// @Summary Current SEO settings
// @Tags SEO
// @Produce json
// @Success 200 {object} model.SeoResponse
// @Router /seo [get]
func (h *Handler) GetSeo(w http.ResponseWriter, r *http.Request) {
	settings, err := h.seo.Get(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, model.SeoResponse{Data: settings})
}

// UpdateSeo godoc
// @Summary Update SEO settings
// @Description Partial update. Only keys present in the body change; an unchanged body is not written.
// @Tags SEO
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SeoSettingsPatch true "Settings to change"
// @Success 200 {object} model.SeoResponse
// @Failure 400 {object} messageResponse
// @Router /seo [put]
func (h *Handler) UpdateSeo(w http.ResponseWriter, r *http.Request) {
	var patch model.SeoSettingsPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.RobotsTxt != nil && *patch.RobotsTxt != "" {
		if _, err := robotstxt.FromString(*patch.RobotsTxt); err != nil {
			respondError(w, http.StatusBadRequest, msgInvalidRobots)
			return
		}
	}

	current, err := h.seo.Get(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if !patch.Apply(current) {
		respondJSON(w, http.StatusOK, model.SeoResponse{Data: current})
		return
	}

	saved, err := h.seo.Save(r.Context(), current)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.logger.Infow("seo settings updated")
	respondJSON(w, http.StatusOK, model.SeoResponse{Data: saved})
}

// SyncSeo godoc
// @Summary Sync SEO settings from the site
// @Description Re-reads title, meta tags and tracking ids from the deployed index.html and stores them
// @Tags SEO
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SeoResponse
// @Failure 503 {object} messageResponse
// @Router /seo/sync [post]
func (h *Handler) SyncSeo(w http.ResponseWriter, r *http.Request) {
	page, err := h.readIndex()
	if err != nil {
		h.logger.Warnw("seo sync source unavailable", "error", err)
		respondError(w, http.StatusServiceUnavailable, msgSiteUnavailable)
		return
	}
	defer page.Close()

	extracted, err := seo.Extract(page)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	current, err := h.seo.Get(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	current.Merge(extracted)

	saved, err := h.seo.Save(r.Context(), current)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.logger.Infow("seo settings synced from site")
	respondJSON(w, http.StatusOK, model.SeoResponse{Data: saved})
}

var errNoSiteDir = errors.New("site directory not configured")

func (h *Handler) readIndex() (*os.File, error) {
	if h.siteDir == "" {
		return nil, errNoSiteDir
	}
	return os.Open(filepath.Join(h.siteDir, "index.html"))
}
