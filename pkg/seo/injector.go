package seo

import (
	"errors"
	"fmt"
)

type metaTag struct {
	attr  string
	key   string
	value func(Settings) string
}

var metaTags = []metaTag{
	{"name", "description", func(s Settings) string { return s.MetaDescription }},
	{"name", "keywords", func(s Settings) string { return s.Keywords }},
	{"name", "google-site-verification", func(s Settings) string { return s.GoogleConsole }},
	{"property", "og:title", func(s Settings) string { return s.OgTitle }},
	{"property", "og:description", func(s Settings) string { return s.OgDescription }},
	{"property", "og:image", func(s Settings) string { return s.OgImage }},
	{"property", "og:url", func(s Settings) string { return s.OgURL }},
	{"name", "twitter:title", func(s Settings) string { return s.OgTitle }},
	{"name", "twitter:description", func(s Settings) string { return s.OgDescription }},
}

type integration struct {
	name   string
	id     func(Settings) string
	inject func(Document, string) error
}

var integrations = []integration{
	{"gtm", func(s Settings) string { return s.GtmID }, injectGTM},
	{"ga", func(s Settings) string { return s.GaID }, injectGA},
	{"fb-pixel", func(s Settings) string { return s.FbPixel }, injectFBPixel},
	{"tiktok-pixel", func(s Settings) string { return s.TiktokPixel }, injectTikTok},
}

// Apply writes s into doc. Empty values are skipped so existing tags are
// never blanked. A failing item does not stop the others; all failures are
// returned joined.
func Apply(doc Document, s Settings) error {
	var errs []error

	if s.SiteTitle != "" {
		if err := doc.SetTitle(s.SiteTitle); err != nil {
			errs = append(errs, fmt.Errorf("title: %w", err))
		}
	}

	for _, m := range metaTags {
		content := m.value(s)
		if content == "" {
			continue
		}
		if err := doc.UpsertMeta(m.attr, m.key, content); err != nil {
			errs = append(errs, fmt.Errorf("meta %s: %w", m.key, err))
		}
	}

	for _, in := range integrations {
		id := in.id(s)
		if id == "" {
			continue
		}
		if !ValidTrackingID(id) {
			errs = append(errs, fmt.Errorf("%s: invalid id %q", in.name, id))
			continue
		}
		if err := in.inject(doc, id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in.name, err))
		}
	}

	return errors.Join(errs...)
}

func injectGTM(doc Document, id string) error {
	if !doc.HasElement(GTMScriptID) {
		err := doc.PrependHead(Element{
			Tag: "script",
			ID:  GTMScriptID,
			Body: `(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':
new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],
j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src=
'https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);
})(window,document,'script','dataLayer','` + id + `');`,
		})
		if err != nil {
			return err
		}
	}

	if doc.HasElement(GTMNoscriptID) {
		return nil
	}
	return doc.PrependBody(Element{
		Tag:  "noscript",
		ID:   GTMNoscriptID,
		Body: `<iframe src="https://www.googletagmanager.com/ns.html?id=` + id + `" height="0" width="0" style="display:none;visibility:hidden"></iframe>`,
	})
}

func injectGA(doc Document, id string) error {
	if doc.HasElement(GAScriptID) {
		return nil
	}
	err := doc.AppendHead(Element{
		Tag:   "script",
		ID:    GAScriptID,
		Attrs: []Attr{{Key: "async", Value: ""}, {Key: "src", Value: "https://www.googletagmanager.com/gtag/js?id=" + id}},
	})
	if err != nil {
		return err
	}
	if doc.HasElement(GAConfigID) {
		return nil
	}
	return doc.AppendHead(Element{
		Tag: "script",
		ID:  GAConfigID,
		Body: `window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', '` + id + `');`,
	})
}

func injectFBPixel(doc Document, id string) error {
	if doc.HasElement(FBScriptID) {
		return nil
	}
	err := doc.AppendHead(Element{
		Tag: "script",
		ID:  FBScriptID,
		Body: `!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');
fbq('init', '` + id + `');
fbq('track', 'PageView');`,
	})
	if err != nil {
		return err
	}
	if doc.HasElement(FBNoscriptID) {
		return nil
	}
	return doc.AppendHead(Element{
		Tag:  "noscript",
		ID:   FBNoscriptID,
		Body: `<img height="1" width="1" style="display:none" src="https://www.facebook.com/tr?id=` + id + `&ev=PageView&noscript=1"/>`,
	})
}

func injectTikTok(doc Document, id string) error {
	if doc.HasElement(TikTokScriptID) {
		return nil
	}
	return doc.AppendHead(Element{
		Tag: "script",
		ID:  TikTokScriptID,
		Body: `!function (w, d, t) {
w.TiktokAnalyticsObject=t;var ttq=w[t]=w[t]||[];ttq.methods=["page","track","identify","instances","debug","on","off","once","ready","alias","group","enableCookie","disableCookie","holdConsent","revokeConsent","grantConsent"],ttq.setAndDefer=function(t,e){t[e]=function(){t.push([e].concat(Array.prototype.slice.call(arguments,0)))}};for(var i=0;i<ttq.methods.length;i++)ttq.setAndDefer(ttq,ttq.methods[i]);ttq.instance=function(t){for(var e=ttq._i[t]||[],n=0;n<ttq.methods.length;n++)ttq.setAndDefer(e,ttq.methods[n]);return e},ttq.load=function(e,n){var r="https://analytics.tiktok.com/i18n/pixel/events.js",o=n&&n.partner;ttq._i=ttq._i||{},ttq._i[e]=[],ttq._i[e]._u=r,ttq._t=ttq._t||{},ttq._t[e]=+new Date,ttq._o=ttq._o||{},ttq._o[e]=n||{};n=document.createElement("script");n.type="text/javascript",n.async=!0,n.src=r+"?sdkid="+e+"&lib="+t;e=document.getElementsByTagName("script")[0];e.parentNode.insertBefore(n,e)};
ttq.load('` + id + `');
ttq.page();
}(window, document, 'ttq');`,
	})
}
