package seo

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	gtmPattern    = regexp.MustCompile(`GTM-[A-Z0-9]+`)
	gaSrcPattern  = regexp.MustCompile(`gtag/js\?id=([A-Za-z0-9_-]+)`)
	gaCfgPattern  = regexp.MustCompile(`gtag\(\s*['"]config['"]\s*,\s*['"]([A-Za-z0-9_-]+)['"]`)
	fbPattern     = regexp.MustCompile(`fbq\(\s*['"]init['"]\s*,\s*['"]([A-Za-z0-9_-]+)['"]`)
	tiktokPattern = regexp.MustCompile(`ttq\.load\(\s*['"]([A-Za-z0-9_-]+)['"]`)
)

// Extract derives settings from a static page: title, the known meta tags
// and the ids inside the known tracking snippets. robots.txt and sitemap
// cannot be read from a page and are left empty.
func Extract(r io.Reader) (Settings, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse html: %w", err)
	}

	meta := func(attr, key string) string {
		v, _ := doc.Find(fmt.Sprintf("meta[%s=%q]", attr, key)).First().Attr("content")
		return strings.TrimSpace(v)
	}

	s := Settings{
		SiteTitle:       strings.TrimSpace(doc.Find("head title").First().Text()),
		MetaDescription: meta("name", "description"),
		Keywords:        meta("name", "keywords"),
		GoogleConsole:   meta("name", "google-site-verification"),
		OgTitle:         meta("property", "og:title"),
		OgDescription:   meta("property", "og:description"),
		OgImage:         meta("property", "og:image"),
		OgURL:           meta("property", "og:url"),
	}

	var sb strings.Builder
	doc.Find("script, noscript").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			sb.WriteString(src)
			sb.WriteByte('\n')
		}
		sb.WriteString(sel.Text())
		sb.WriteByte('\n')
	})
	scripts := sb.String()

	s.GtmID = gtmPattern.FindString(scripts)
	s.GaID = firstGroup(gaSrcPattern, scripts)
	if s.GaID == "" {
		s.GaID = firstGroup(gaCfgPattern, scripts)
	}
	s.FbPixel = firstGroup(fbPattern, scripts)
	s.TiktokPixel = firstGroup(tiktokPattern, scripts)

	for _, id := range []*string{&s.GtmID, &s.GaID, &s.FbPixel, &s.TiktokPixel} {
		if !ValidTrackingID(*id) {
			*id = ""
		}
	}

	return s, nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
