package model

import (
	"time"

	"github.com/intlakaa/pkg/seo"
)

// SeoSettings is the singleton row of site metadata and tracking ids.
type SeoSettings struct {
	SiteTitle       string    `json:"siteTitle" db:"site_title"`
	MetaDescription string    `json:"metaDescription" db:"meta_description"`
	Keywords        string    `json:"keywords" db:"keywords"`
	OgTitle         string    `json:"ogTitle" db:"og_title"`
	OgDescription   string    `json:"ogDescription" db:"og_description"`
	OgImage         string    `json:"ogImage" db:"og_image"`
	OgURL           string    `json:"ogUrl" db:"og_url"`
	GoogleConsole   string    `json:"googleConsole" db:"google_console"`
	RobotsTxt       string    `json:"robotsTxt" db:"robots_txt"`
	Sitemap         string    `json:"sitemap" db:"sitemap"`
	GtmID           string    `json:"gtmId" db:"gtm_id"`
	GaID            string    `json:"gaId" db:"ga_id"`
	FbPixel         string    `json:"fbPixel" db:"fb_pixel"`
	TiktokPixel     string    `json:"tiktokPixel" db:"tiktok_pixel"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Injectable returns the subset of settings the head injector consumes.
func (s SeoSettings) Injectable() seo.Settings {
	return seo.Settings{
		SiteTitle:       s.SiteTitle,
		MetaDescription: s.MetaDescription,
		Keywords:        s.Keywords,
		OgTitle:         s.OgTitle,
		OgDescription:   s.OgDescription,
		OgImage:         s.OgImage,
		OgURL:           s.OgURL,
		GoogleConsole:   s.GoogleConsole,
		RobotsTxt:       s.RobotsTxt,
		Sitemap:         s.Sitemap,
		GtmID:           s.GtmID,
		GaID:            s.GaID,
		FbPixel:         s.FbPixel,
		TiktokPixel:     s.TiktokPixel,
	}
}

// SeoSettingsPatch is a partial update: nil fields are left untouched.
type SeoSettingsPatch struct {
	SiteTitle       *string `json:"siteTitle" validate:"omitempty,max=200"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=1000"`
	Keywords        *string `json:"keywords" validate:"omitempty,max=1000"`
	OgTitle         *string `json:"ogTitle" validate:"omitempty,max=200"`
	OgDescription   *string `json:"ogDescription" validate:"omitempty,max=1000"`
	OgImage         *string `json:"ogImage" validate:"omitempty,max=1000"`
	OgURL           *string `json:"ogUrl" validate:"omitempty,max=1000"`
	GoogleConsole   *string `json:"googleConsole" validate:"omitempty,max=200"`
	RobotsTxt       *string `json:"robotsTxt" validate:"omitempty,max=20000"`
	Sitemap         *string `json:"sitemap" validate:"omitempty,max=1000"`
	GtmID           *string `json:"gtmId" validate:"omitempty,trackingid"`
	GaID            *string `json:"gaId" validate:"omitempty,trackingid"`
	FbPixel         *string `json:"fbPixel" validate:"omitempty,trackingid"`
	TiktokPixel     *string `json:"tiktokPixel" validate:"omitempty,trackingid"`
}

// Apply copies every non-nil field onto s and reports whether anything
// changed.
func (p SeoSettingsPatch) Apply(s *SeoSettings) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&s.SiteTitle, p.SiteTitle)
	set(&s.MetaDescription, p.MetaDescription)
	set(&s.Keywords, p.Keywords)
	set(&s.OgTitle, p.OgTitle)
	set(&s.OgDescription, p.OgDescription)
	set(&s.OgImage, p.OgImage)
	set(&s.OgURL, p.OgURL)
	set(&s.GoogleConsole, p.GoogleConsole)
	set(&s.RobotsTxt, p.RobotsTxt)
	set(&s.Sitemap, p.Sitemap)
	set(&s.GtmID, p.GtmID)
	set(&s.GaID, p.GaID)
	set(&s.FbPixel, p.FbPixel)
	set(&s.TiktokPixel, p.TiktokPixel)
	return changed
}

// Merge overlays the non-empty values extracted from a static page.
// robots.txt and sitemap are not part of the page and stay as stored.
func (s *SeoSettings) Merge(from seo.Settings) {
	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&s.SiteTitle, from.SiteTitle)
	overlay(&s.MetaDescription, from.MetaDescription)
	overlay(&s.Keywords, from.Keywords)
	overlay(&s.OgTitle, from.OgTitle)
	overlay(&s.OgDescription, from.OgDescription)
	overlay(&s.OgImage, from.OgImage)
	overlay(&s.OgURL, from.OgURL)
	overlay(&s.GoogleConsole, from.GoogleConsole)
	overlay(&s.GtmID, from.GtmID)
	overlay(&s.GaID, from.GaID)
	overlay(&s.FbPixel, from.FbPixel)
	overlay(&s.TiktokPixel, from.TiktokPixel)
}

type SeoResponse struct {
	Data *SeoSettings `json:"data"`
}
