package api

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/intlakaa/pkg/seo"
)

const defaultRobots = "User-agent: *\nAllow: /\n"

// Robots serves the stored robots.txt, or an allow-all default. A Sitemap
// line is appended when a sitemap URL is configured and not already listed.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	body := defaultRobots
	sitemap := ""

	settings, err := h.seo.Get(r.Context())
	if err != nil {
		h.logger.Warnw("failed to load robots.txt, serving default", "error", err)
	} else {
		if strings.TrimSpace(settings.RobotsTxt) != "" {
			body = settings.RobotsTxt
		}
		sitemap = strings.TrimSpace(settings.Sitemap)
	}

	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if sitemap != "" && !strings.Contains(strings.ToLower(body), "sitemap:") {
		body += "Sitemap: " + sitemap + "\n"
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, body)
}

// Sitemap redirects to the configured absolute sitemap URL.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	settings, err := h.seo.Get(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	u, err := url.Parse(strings.TrimSpace(settings.Sitemap))
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// Site serves the public single-page app. Existing files are served as-is;
// every other path gets index.html with the current SEO settings applied.
// If settings or rendering fail the raw index.html is served.
func (h *Handler) Site(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		respondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	if h.siteDir == "" {
		http.NotFound(w, r)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if clean != "/" && clean != "/index.html" {
		file := filepath.Join(h.siteDir, filepath.FromSlash(clean))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			http.ServeFile(w, r, file)
			return
		}
	}

	page, err := os.ReadFile(filepath.Join(h.siteDir, "index.html"))
	if err != nil {
		h.logger.Errorw("failed to read index.html", "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(h.renderIndex(r, page))
}

func (h *Handler) renderIndex(r *http.Request, page []byte) []byte {
	settings, err := h.seo.Get(r.Context())
	if err != nil {
		h.logger.Warnw("failed to load seo settings, serving raw index", "error", err)
		return page
	}

	out, err := seo.Render(page, settings.Injectable())
	if out == nil {
		h.logger.Warnw("failed to render index, serving raw", "error", err)
		return page
	}
	if err != nil {
		h.logger.Warnw("some seo items were not applied", "error", err)
	}
	return out
}
