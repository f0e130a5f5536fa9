package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/intlakaa/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteIndex = `<!doctype html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<title>انطلاقة</title>
<meta name="description" content="Grow your store">
</head>
<body><div id="root"></div></body>
</html>`

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(siteIndex), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func TestGetSeoIsPublic(t *testing.T) {
	env := newTestEnv(t, "")
	env.seo.settings.SiteTitle = "Intlakaa"

	rec := env.do(t, http.MethodGet, "/api/seo", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SeoResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Intlakaa", resp.Data.SiteTitle)
}

func TestUpdateSeoPartial(t *testing.T) {
	env := newTestEnv(t, "")
	env.seo.settings = model.SeoSettings{SiteTitle: "Old", Keywords: "ecommerce", GtmID: "GTM-OLD"}
	token := env.token(t, "u-admin")

	rec := env.do(t, http.MethodPut, "/api/seo", `{"siteTitle":"New","gtmId":""}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SeoResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "New", resp.Data.SiteTitle)
	assert.Equal(t, "ecommerce", resp.Data.Keywords)
	assert.Empty(t, resp.Data.GtmID)
	assert.Equal(t, 1, env.seo.saves)
}

func TestUpdateSeoRoundTripDoesNotWrite(t *testing.T) {
	env := newTestEnv(t, "")
	env.seo.settings = model.SeoSettings{SiteTitle: "Intlakaa", GaID: "G-ABC123", RobotsTxt: "User-agent: *\nDisallow: /admin\n"}
	token := env.token(t, "u-owner")

	rec := env.do(t, http.MethodGet, "/api/seo", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.SeoResponse
	decodeBody(t, rec, &got)

	rec = env.do(t, http.MethodPut, "/api/seo", got.Data.Injectable(), token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SeoResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, got.Data, resp.Data)
	assert.Zero(t, env.seo.saves)
}

func TestUpdateSeoRejectsBadTrackingID(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.token(t, "u-admin")

	for _, body := range []string{
		`{"gtmId":"GTM-1');alert(1)//"}`,
		`{"fbPixel":"12 34"}`,
	} {
		rec := env.do(t, http.MethodPut, "/api/seo", body, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, msgInvalidTracking, errorOf(t, rec).Message)
	}
	assert.Zero(t, env.seo.saves)
}

func TestUpdateSeoRequiresAuth(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPut, "/api/seo", `{"siteTitle":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, env.seo.saves)
}

func TestSyncSeoFromSite(t *testing.T) {
	env := newTestEnv(t, writeSite(t))
	env.seo.settings = model.SeoSettings{Keywords: "kept", RobotsTxt: "User-agent: *\n"}

	rec := env.do(t, http.MethodPost, "/api/seo/sync", nil, env.token(t, "u-admin"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SeoResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "انطلاقة", resp.Data.SiteTitle)
	assert.Equal(t, "Grow your store", resp.Data.MetaDescription)
	assert.Equal(t, "kept", resp.Data.Keywords)
	assert.Equal(t, "User-agent: *\n", resp.Data.RobotsTxt)
	assert.Equal(t, 1, env.seo.saves)
}

func TestSyncSeoWithoutSite(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/seo/sync", nil, env.token(t, "u-admin"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, msgSiteUnavailable, errorOf(t, rec).Message)
}
