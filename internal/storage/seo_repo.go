package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/intlakaa/internal/model"
)

const seoColumns = `site_title, meta_description, keywords, og_title, og_description, og_image, og_url,
	google_console, robots_txt, sitemap, gtm_id, ga_id, fb_pixel, tiktok_pixel, updated_at`

type SeoRepository struct {
	db *Database
}

func NewSeoRepository(db *Database) *SeoRepository {
	return &SeoRepository{db: db}
}

// Get returns the singleton settings row. A missing row reads as empty
// settings.
func (r *SeoRepository) Get(ctx context.Context) (*model.SeoSettings, error) {
	var rows []model.SeoSettings
	query := `SELECT ` + seoColumns + ` FROM seo_settings WHERE id = 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load seo settings: %w", err)
	}
	if len(rows) == 0 {
		return &model.SeoSettings{}, nil
	}
	return &rows[0], nil
}

func (r *SeoRepository) Save(ctx context.Context, s *model.SeoSettings) (*model.SeoSettings, error) {
	query := `
		INSERT INTO seo_settings (id, site_title, meta_description, keywords, og_title, og_description, og_image, og_url,
			google_console, robots_txt, sitemap, gtm_id, ga_id, fb_pixel, tiktok_pixel, updated_at)
		VALUES (1, :site_title, :meta_description, :keywords, :og_title, :og_description, :og_image, :og_url,
			:google_console, :robots_txt, :sitemap, :gtm_id, :ga_id, :fb_pixel, :tiktok_pixel, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			site_title = EXCLUDED.site_title,
			meta_description = EXCLUDED.meta_description,
			keywords = EXCLUDED.keywords,
			og_title = EXCLUDED.og_title,
			og_description = EXCLUDED.og_description,
			og_image = EXCLUDED.og_image,
			og_url = EXCLUDED.og_url,
			google_console = EXCLUDED.google_console,
			robots_txt = EXCLUDED.robots_txt,
			sitemap = EXCLUDED.sitemap,
			gtm_id = EXCLUDED.gtm_id,
			ga_id = EXCLUDED.ga_id,
			fb_pixel = EXCLUDED.fb_pixel,
			tiktok_pixel = EXCLUDED.tiktok_pixel,
			updated_at = EXCLUDED.updated_at
	`
	saved := *s
	saved.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, &saved); err != nil {
		return nil, fmt.Errorf("failed to save seo settings: %w", err)
	}
	return &saved, nil
}
