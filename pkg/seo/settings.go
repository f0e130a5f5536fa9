// Package seo applies site metadata and third-party tracking snippets to an
// HTML document. Every mutation checks before it inserts, so applying the
// same settings any number of times leaves exactly one copy of each tag.
package seo

import "regexp"

// Settings is the injectable view of the stored SEO record.
type Settings struct {
	SiteTitle       string `json:"siteTitle"`
	MetaDescription string `json:"metaDescription"`
	Keywords        string `json:"keywords"`
	OgTitle         string `json:"ogTitle"`
	OgDescription   string `json:"ogDescription"`
	OgImage         string `json:"ogImage"`
	OgURL           string `json:"ogUrl"`
	GoogleConsole   string `json:"googleConsole"`
	RobotsTxt       string `json:"robotsTxt"`
	Sitemap         string `json:"sitemap"`
	GtmID           string `json:"gtmId"`
	GaID            string `json:"gaId"`
	FbPixel         string `json:"fbPixel"`
	TiktokPixel     string `json:"tiktokPixel"`
}

// Element ids of injected nodes. They are the idempotence keys.
const (
	GTMScriptID    = "dynamic-gtm-script"
	GTMNoscriptID  = "dynamic-gtm-noscript"
	GAScriptID     = "dynamic-ga-script"
	GAConfigID     = "dynamic-ga-config"
	FBScriptID     = "dynamic-fb-script"
	FBNoscriptID   = "dynamic-fb-noscript"
	TikTokScriptID = "dynamic-tiktok-script"
)

var trackingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidTrackingID reports whether id is safe to embed in a script body.
func ValidTrackingID(id string) bool {
	return trackingIDPattern.MatchString(id)
}
