package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/intlakaa/pkg/seo"
)

type SeoClient struct {
	c *Client

	bootOnce sync.Once
	boot     *SeoSettings
}

type seoResponse struct {
	Data *SeoSettings `json:"data"`
}

// Fetch is public.
func (s *SeoClient) Fetch(ctx context.Context) (*SeoSettings, error) {
	var resp seoResponse
	if err := s.c.do(ctx, http.MethodGet, "/seo", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Save writes every field of settings. Saving what Fetch returned changes
// nothing on the server.
func (s *SeoClient) Save(ctx context.Context, settings seo.Settings) (*SeoSettings, error) {
	return s.put(ctx, settings)
}

// Update changes only the given fields, keyed by their JSON names.
func (s *SeoClient) Update(ctx context.Context, fields map[string]string) (*SeoSettings, error) {
	return s.put(ctx, fields)
}

func (s *SeoClient) put(ctx context.Context, body interface{}) (*SeoSettings, error) {
	var resp seoResponse
	if err := s.c.do(ctx, http.MethodPut, "/seo", body, &resp); err != nil {
		return nil, err
	}
	s.c.cache.Invalidate(KeySeo)
	return resp.Data, nil
}

// Sync asks the server to re-read the settings from the deployed page.
func (s *SeoClient) Sync(ctx context.Context) (*SeoSettings, error) {
	var resp seoResponse
	if err := s.c.do(ctx, http.MethodPost, "/seo/sync", nil, &resp); err != nil {
		return nil, err
	}
	s.c.cache.Invalidate(KeySeo)
	return resp.Data, nil
}

// InitDynamicSEO fetches the settings on the first call and applies them to
// doc. Later calls reuse those settings, and applying is idempotent, so a
// reload leaves one copy of every tag. Nothing here returns an error: a
// failed fetch or item is logged and boot continues.
func (s *SeoClient) InitDynamicSEO(ctx context.Context, doc seo.Document) {
	s.bootOnce.Do(func() {
		settings, err := s.Fetch(ctx)
		if err != nil {
			s.c.logger.Warnw("failed to load seo settings", "error", err)
			return
		}
		s.boot = settings
	})
	if s.boot == nil {
		return
	}
	if err := seo.Apply(doc, s.boot.Settings); err != nil {
		s.c.logger.Warnw("some seo items were not applied", "error", err)
	}
}
