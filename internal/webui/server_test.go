package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/localstore"
	"xlink-template-picker/internal/selection"
	"xlink-template-picker/internal/session"
	"xlink-template-picker/internal/xlinkapi"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == defaultCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) state() stateResponse {
	c.t.Helper()
	rec := c.get("/api/state")
	require.Equal(c.t, http.StatusOK, rec.Code)
	var resp stateResponse
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func newTestServer(t *testing.T, committer *selection.Committer) *testClient {
	t.Helper()
	if committer == nil {
		committer = selection.New(selection.Options{})
	}
	srv, err := New(Options{
		Sessions:  session.NewStore(session.Options{}),
		Committer: committer,
	})
	require.NoError(t, err)
	return &testClient{t: t, handler: srv.Handler()}
}

func TestIndexRendersGalleryAndIssuesCookie(t *testing.T) {
	c := newTestServer(t, nil)

	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)
	body := rec.Body.String()
	assert.Contains(t, body, "Neon Pulse")
	assert.Contains(t, body, "XR-NEON-01")
	assert.Contains(t, body, `data-category="all"`)
	assert.Contains(t, body, "linear-gradient(135deg, rgba(5, 7, 20, 0.9), rgba(58, 134, 255, 0.35))")
	assert.Contains(t, body, "surface glow")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	c := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, c.get("/nope").Code)
}

func TestActionSelectCategoryRedirects(t *testing.T) {
	c := newTestServer(t, nil)
	c.get("/")

	rec := c.post("/action", url.Values{"kind": {"select_category"}, "value": {"dark"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	st := c.state()
	assert.Equal(t, "dark", st.Category)
	assert.Equal(t, "xr-cyber-03", st.TemplateID)
}

func TestSessionsFollowCookies(t *testing.T) {
	a := newTestServer(t, nil)
	a.get("/")
	a.post("/action", url.Values{"kind": {"select_template"}, "value": {"xr-gradient-05"}})

	b := &testClient{t: t, handler: a.handler}

	assert.Equal(t, "xr-gradient-05", a.state().TemplateID)
	assert.Equal(t, "xr-neon-01", b.state().TemplateID)
}

func TestActionValidation(t *testing.T) {
	cases := []url.Values{
		{"kind": {"launch_rockets"}},
		{"kind": {""}},
		{"kind": {"set_background"}, "value": {"red; background:url(x)"}},
		{"kind": {"select_template"}},
		{"kind": {"select_category"}, "value": {strings.Repeat("a", 200)}},
	}

	for _, form := range cases {
		c := newTestServer(t, nil)
		c.get("/")

		rec := c.post("/action", form)

		assert.Equal(t, http.StatusBadRequest, rec.Code, form.Encode())
		assert.Contains(t, rec.Body.String(), "invalid action")
	}
}

func TestActionSetColorsAndToggleEffect(t *testing.T) {
	c := newTestServer(t, nil)
	c.get("/")

	c.post("/action", url.Values{"kind": {"set_background"}, "value": {"#112233"}})
	c.post("/action", url.Values{"kind": {"set_accent"}, "value": {"#445566"}})
	c.post("/action", url.Values{"kind": {"toggle_effect"}, "value": {gallery.EffectNeonGlow}, "enabled": {"false"}})

	st := c.state()
	assert.Equal(t, "#112233", st.Customization.BackgroundColor)
	assert.Equal(t, "#445566", st.Customization.AccentColor)
	assert.False(t, st.Customization.Effects[gallery.EffectNeonGlow])
	assert.Equal(t, "linear-gradient(135deg, rgba(17, 34, 51, 0.9), rgba(68, 85, 102, 0.35))", st.Preview.Background)
	assert.NotContains(t, st.Preview.Classes, "glow")
}

func TestResetAction(t *testing.T) {
	c := newTestServer(t, nil)
	c.get("/")
	c.post("/action", url.Values{"kind": {"set_background"}, "value": {"#112233"}})

	c.post("/action", url.Values{"kind": {"reset"}})

	assert.Equal(t, "#050714", c.state().Customization.BackgroundColor)
}

func TestConfirmRemoteSetsRefresh(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer api.Close()
	c := newTestServer(t, selection.New(selection.Options{Remote: xlinkapi.New(xlinkapi.Options{BaseURL: api.URL})}))
	c.get("/")

	rec := c.post("/confirm", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1; url=create.html", rec.Header().Get("Refresh"))
	assert.Contains(t, rec.Body.String(), "Template selected!")
	assert.Contains(t, rec.Body.String(), `href="create.html"`)
	assert.Equal(t, "success", c.state().Status)
}

func TestConfirmOfflineWritesLocalStore(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()
	local, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer local.Close()

	c := newTestServer(t, selection.New(selection.Options{
		Remote: xlinkapi.New(xlinkapi.Options{BaseURL: api.URL}),
		Local:  local,
	}))
	c.get("/")

	rec := c.post("/confirm", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Refresh"))
	assert.Contains(t, rec.Body.String(), "offline mode")

	raw, ok, err := local.Get(context.Background(), localstore.SelectedTemplateKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"template_id":"xr-neon-01"`)
}

func TestMethodNotAllowed(t *testing.T) {
	c := newTestServer(t, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, c.get("/action").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, c.get("/confirm").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, c.post("/", nil).Code)
}

func TestRefreshHeader(t *testing.T) {
	nav := &gallery.Navigation{URL: "create.html", Delay: 1500 * time.Millisecond}

	assert.Equal(t, "1.5; url=create.html", refreshHeader(nav))
}
