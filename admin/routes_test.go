package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	flickrembed "flickr-embed/embed"
	"flickr-embed/flickr"
	"flickr-embed/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct{}

func (fakeService) GetPhotoInfo(_ context.Context, id string) (*flickr.PhotoInfo, error) {
	if id != "1" {
		return nil, &flickr.ProviderError{Code: 1, Message: "Photo not found"}
	}
	var out flickr.PhotoInfo
	err := json.Unmarshal([]byte(`{
		"id": "1",
		"owner": {"nsid": "1@N00", "username": "me", "realname": "Me Myself"},
		"title": {"_content": "Photo 1"},
		"description": {"_content": "A photo"},
		"urls": {"url": [{"type": "photopage", "_content": "https://www.flickr.com/photos/me/1/"}]}
	}`), &out)
	return &out, err
}

func (fakeService) GetPhotoSizes(_ context.Context, id string) (*flickr.Sizes, error) {
	var out flickr.Sizes
	err := json.Unmarshal([]byte(fmt.Sprintf(`{"size": [
		{"label": "Thumbnail", "width": 100, "height": 80, "source": "https://fake/%[1]s_t.jpg", "media": "photo"},
		{"label": "Medium", "width": "500", "height": "400", "source": "https://fake/%[1]s_m.jpg", "media": "photo"}
	]}`, id)), &out)
	return &out, err
}

type fakeValidator struct {
	valid string
}

func (v fakeValidator) ValidateAPIKey(_ context.Context, key string) bool {
	return key == v.valid
}

func newTestMux(t *testing.T, stored string) (http.Handler, *settings.Store) {
	t.Setenv("APP_ENV", "test")
	store := settings.NewStore(settings.NewMemoryBackend(stored), fakeValidator{valid: "abc123"})
	renderer := &flickrembed.Renderer{Photos: fakeService{}}
	return Mux(renderer, store), store
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<a href="/" class="current">Preview</a>`)
	assert.Contains(t, rec.Body.String(), "<!--timingMiddleware:")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndexPreview(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/?photo=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body,
		`<img alt="Photo 1" src="https://fake/1_m.jpg" width="400" height="320" />`)
	assert.Contains(t, body, "By Me Myself.")
	assert.Contains(t, body, `<p class="description">A photo</p>`)
	assert.Contains(t, body, "Display width 400, matched size 500 of 2 available.")
	assert.Contains(t, body, "&lt;media:group&gt;")
	assert.Contains(t, body, "&lt;image:loc&gt;https://fake/1_m.jpg&lt;/image:loc&gt;")

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/?photo=1&w=90", nil))
	assert.Contains(t, rec.Body.String(), `src="https://fake/1_t.jpg" width="90" height="72"`)
}

func TestIndexPreviewError(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/?photo=2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flickr error 1: Photo not found")
}

func TestNotFound(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timingMiddleware")
}

func TestRender(t *testing.T) {
	h, _ := newTestMux(t, "")

	form := url.Values{"content": {`<p>[flickr photo="1" w="100"]</p>`}}
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 directive(s) found.")
	assert.Contains(t, body,
		`<p><div style="text-align:center"><a href="https://www.flickr.com/photos/me/1/"><img alt="Photo 1" src="https://fake/1_t.jpg" width="100" height="80" /></a></div></p>`)
}

func TestMediaRSSRoute(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/mediarss?photo=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<media:group>\n"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "</media:group>\n"))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/mediarss?photo=2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/mediarss", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSitemapRoute(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet,
		"/sitemap?loc=https://example.com/post&photo=1&photo=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://example.com/post</loc>")
	assert.Equal(t, 1, strings.Count(body, "<image:image>"))
	assert.Contains(t, body, "<image:loc>https://fake/1_m.jpg</image:loc>")
	assert.True(t, strings.HasSuffix(body, "</urlset>\n"))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/sitemap?photo=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func postSettings(t *testing.T, h http.Handler, key string) *httptest.ResponseRecorder {
	form := url.Values{"flickr_api_key": {key}}
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, h, req)
}

func TestSettings(t *testing.T) {
	table := []struct {
		name         string
		key          string
		expectStatus int
		expectBody   string
		expectKey    string
	}{
		{name: "accepted", key: "abc123", expectStatus: http.StatusOK,
			expectBody: "Flickr API key saved.", expectKey: "abc123"},
		{name: "rejected", key: "zzz999", expectStatus: http.StatusUnprocessableEntity,
			expectBody: "Invalid Flickr API key: Flickr rejected the key.", expectKey: "old"},
		{name: "not alphanumeric", key: "abc-123", expectStatus: http.StatusUnprocessableEntity,
			expectBody: "Flickr API keys are alphanumeric.", expectKey: "old"},
	}
	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			h, store := newTestMux(t, "old")

			rec := postSettings(t, h, tc.key)
			assert.Equal(t, tc.expectStatus, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tc.expectBody)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf(`value="%s"`, tc.expectKey))

			key, err := store.Credential(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.expectKey, key)
		})
	}
}

func TestSettingsForm(t *testing.T) {
	h, _ := newTestMux(t, "")

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/settings", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The key is 32 alphanumeric characters long.")
	assert.Contains(t, rec.Body.String(), `<a href="/settings" class="current">Settings</a>`)
}
