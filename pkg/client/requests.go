package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// RequestsClient covers the lead resource.
type RequestsClient struct {
	c        *Client
	enricher func(ctx context.Context, in *LeadInput) error
}

// SetEnricher installs a best-effort hook run before Create, e.g. to fill
// the client IP and country. Its errors are logged and ignored.
func (r *RequestsClient) SetEnricher(fn func(ctx context.Context, in *LeadInput) error) {
	r.enricher = fn
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) key() string {
	return fmt.Sprintf("%s:page=%d:limit=%d:search=%s", KeyRequests, q.Page, q.Limit, q.Search)
}

// List fetches one page. Pages past the end come back with empty data and
// the real count.
func (r *RequestsClient) List(ctx context.Context, q ListQuery) (*LeadPage, error) {
	q = q.normalize()
	return cached(r.c.cache, q.key(), func() (*LeadPage, error) {
		v := url.Values{}
		v.Set("page", strconv.Itoa(q.Page))
		v.Set("limit", strconv.Itoa(q.Limit))
		if q.Search != "" {
			v.Set("search", q.Search)
		}

		var page LeadPage
		if err := r.c.do(ctx, http.MethodGet, "/requests?"+v.Encode(), nil, &page); err != nil {
			return nil, err
		}
		if page.Data == nil {
			page.Data = []Lead{}
		}
		return &page, nil
	})
}

// Reload is List bypassing any cached copy of the page.
func (r *RequestsClient) Reload(ctx context.Context, q ListQuery) (*LeadPage, error) {
	r.c.cache.Invalidate(q.normalize().key())
	return r.List(ctx, q)
}

// Create submits the public form. It needs no session.
func (r *RequestsClient) Create(ctx context.Context, in LeadInput) (*Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.StoreURL = strings.TrimSpace(in.StoreURL)
	in.MonthlySales = strings.TrimSpace(in.MonthlySales)
	if err := checkLead(in); err != nil {
		return nil, err
	}

	if r.enricher != nil {
		enriched := in
		if err := r.enricher(ctx, &enriched); err != nil {
			r.c.logger.Warnw("lead enrichment failed", "error", err)
		} else {
			in.IPAddress, in.Country, in.PhoneCountry = enriched.IPAddress, enriched.Country, enriched.PhoneCountry
		}
	}

	var resp struct {
		Data *Lead `json:"data"`
	}
	if err := r.c.do(ctx, http.MethodPost, "/requests", in, &resp); err != nil {
		return nil, err
	}
	r.c.cache.Invalidate(KeyRequests, KeyDashboard)
	return resp.Data, nil
}

// Delete removes a lead after confirm agrees. Unknown ids are an error.
func (r *RequestsClient) Delete(ctx context.Context, id string, confirm Confirm) error {
	if confirm == nil || !confirm("هل أنت متأكد من حذف هذا الطلب؟") {
		return ErrNotConfirmed
	}
	if err := r.c.do(ctx, http.MethodDelete, "/requests/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	r.c.cache.Invalidate(KeyRequests, KeyDashboard)
	return nil
}

// ExportAll returns every lead regardless of any paging state.
func (r *RequestsClient) ExportAll(ctx context.Context) ([]Lead, error) {
	var resp struct {
		Data []Lead `json:"data"`
	}
	if err := r.c.do(ctx, http.MethodGet, "/requests/export", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ExportXLSX streams the server-rendered spreadsheet into w and returns the
// suggested file name.
func (r *RequestsClient) ExportXLSX(ctx context.Context, w io.Writer) (string, error) {
	resp, err := r.c.send(ctx, http.MethodGet, "/requests/export.xlsx", nil)
	if err != nil {
		if IsUnauthorized(err) {
			r.c.session.Clear()
		}
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", &APIError{Message: msgNetwork, Err: err}
	}
	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

const defaultExportName = "requests.xlsx"

// attachmentName is the base name offered by the server, never a path.
func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return defaultExportName
	}
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(params["filename"], `\`, "/")))
	switch name {
	case "", ".", "..", "/":
		return defaultExportName
	}
	return name
}

// Stats returns the dashboard counters.
func (r *RequestsClient) Stats(ctx context.Context) (*LeadStats, error) {
	return cached(r.c.cache, KeyDashboard, func() (*LeadStats, error) {
		var resp struct {
			Data *LeadStats `json:"data"`
		}
		if err := r.c.do(ctx, http.MethodGet, "/requests/stats", nil, &resp); err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}
