package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/intlakaa/pkg/seo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootPage = `<!doctype html><html><head><title>انطلاقة</title></head><body><div id="root"></div></body></html>`

func TestFetchSeoIsPublic(t *testing.T) {
	api := newFakeAPI(t)
	api.setSeo(seo.Settings{SiteTitle: "Intlakaa"})

	got, err := api.client().Seo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Intlakaa", got.SiteTitle)
	assert.Empty(t, api.authHeader())
}

func TestUpdateSendsOnlyGivenFields(t *testing.T) {
	api := newFakeAPI(t)
	api.setSeo(seo.Settings{SiteTitle: "Old", Keywords: "ecommerce"})
	c := loggedIn(t, api, "admin@intlakaa.com", "admin-pass")

	got, err := c.Seo.Update(context.Background(), map[string]string{"siteTitle": "New"})
	require.NoError(t, err)
	saves, body := api.seoWrites()
	assert.Equal(t, map[string]interface{}{"siteTitle": "New"}, body)
	assert.Equal(t, 1, saves)
	assert.Equal(t, "New", got.SiteTitle)
	assert.Equal(t, "ecommerce", got.Keywords)
}

func TestSaveWhatWasFetchedChangesNothing(t *testing.T) {
	api := newFakeAPI(t)
	api.setSeo(seo.Settings{SiteTitle: "Intlakaa", GtmID: "GTM-ABC123", RobotsTxt: "User-agent: *\n"})
	c := loggedIn(t, api, "admin@intlakaa.com", "admin-pass")
	ctx := context.Background()

	got, err := c.Seo.Fetch(ctx)
	require.NoError(t, err)
	saved, err := c.Seo.Save(ctx, got.Settings)
	require.NoError(t, err)
	assert.Equal(t, got.Settings, saved.Settings)
	saves, _ := api.seoWrites()
	assert.Zero(t, saves)
}

func TestSyncSeo(t *testing.T) {
	api := newFakeAPI(t)
	c := loggedIn(t, api, "admin@intlakaa.com", "admin-pass")

	got, err := c.Seo.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from page", got.SiteTitle)

	_, err = api.client().Seo.Sync(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func renderDoc(t *testing.T, doc *seo.HTMLDocument) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	return buf.String()
}

func TestInitDynamicSEOFetchesOnceAndStaysIdempotent(t *testing.T) {
	api := newFakeAPI(t)
	api.setSeo(seo.Settings{SiteTitle: "انطلاقة | نمو متجرك", GtmID: "GTM-ABC123", FbPixel: "1234567890"})
	c := api.client()
	ctx := context.Background()

	doc, err := seo.ParseHTML(strings.NewReader(bootPage))
	require.NoError(t, err)
	c.Seo.InitDynamicSEO(ctx, doc)
	c.Seo.InitDynamicSEO(ctx, doc)

	page := renderDoc(t, doc)
	assert.Contains(t, page, "<title>انطلاقة | نمو متجرك</title>")
	assert.Equal(t, 1, strings.Count(page, `id="`+seo.GTMScriptID+`"`))
	assert.Equal(t, 1, strings.Count(page, `id="`+seo.FBScriptID+`"`))

	reloaded, err := seo.ParseHTML(strings.NewReader(bootPage))
	require.NoError(t, err)
	c.Seo.InitDynamicSEO(ctx, reloaded)
	assert.Equal(t, 1, strings.Count(renderDoc(t, reloaded), `id="`+seo.GTMScriptID+`"`))
	assert.Equal(t, 1, api.hitCount("GET /seo"))
}

func TestInitDynamicSEOSurvivesFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := New(srv.URL)

	doc, err := seo.ParseHTML(strings.NewReader(bootPage))
	require.NoError(t, err)
	assert.NotPanics(t, func() { c.Seo.InitDynamicSEO(context.Background(), doc) })

	page := renderDoc(t, doc)
	assert.Contains(t, page, "<title>انطلاقة</title>")
	assert.NotContains(t, page, seo.GTMScriptID)
}
