package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cadetops/corpshq/internal/authstate"
	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/blobstore"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/config"
	"github.com/cadetops/corpshq/internal/docstore"
	identitydemo "github.com/cadetops/corpshq/internal/identity/demo"
	identitydomain "github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/internal/seed"
	"github.com/cadetops/corpshq/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	server *Server
	store  docstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	store := docstore.NewMemory(clk)
	sessions := identitydemo.New(log, clk, filepath.Join(t.TempDir(), "slot.json"), 0)

	provider := authstate.NewProvider(log, sessions)
	t.Cleanup(func() { _ = provider.Stop(t.Context()) })
	require.NoError(t, provider.Start(t.Context()))

	cfg := config.Config{AppName: "corpshq", HTTPPort: "8080"}
	srv := New(Params{
		Log:       log,
		Cfg:       cfg,
		Handles:   &backend.Handles{Demo: true},
		Sessions:  sessions,
		AuthState: provider,
		CadetSvc:  cadet.NewService(log, store),
		UnitSvc:   unit.NewService(log, store),
		AwardSvc:  award.NewService(log, store),
		Blobs:     blobstore.NewDemo(log, clk, 0),
		Docs:      store,
	})
	return &testEnv{server: srv, store: store}
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, seed.New(zap.NewNop(), e.store).Run(t.Context()))
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// login signs in through the API and returns the session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()

	w := e.do(t, http.MethodPost, "/v1/auth/login", reqBody{"email": "staff@corps.example", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

type reqBody = map[string]any

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "demo", decode(t, w)["mode"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "corpshq_http_requests_total")
}

func TestLoginSetsCookieAndReturnsIdentity(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/login", reqBody{"email": "staff@corps.example", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "staff@corps.example", body["email"])
	assert.True(t, strings.HasPrefix(body["id"].(string), "demo-user-"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginShortPasswordRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/login", reqBody{"email": "staff@corps.example", "password": "12345"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decode(t, w)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "unauthorized", errObj["type"])
}

func TestSignupThenMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/signup", reqBody{
		"email":       "sarah@corps.example",
		"password":    "hunter22",
		"displayName": "Sarah Johnson",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookie := w.Result().Cookies()[0]
	me := env.do(t, http.MethodGet, "/v1/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "Sarah Johnson", decode(t, me)["displayName"])
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	me := env.do(t, http.MethodGet, "/v1/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)
	userID := decode(t, me)["id"].(string)

	w := env.do(t, http.MethodPatch, "/v1/auth/me", reqBody{
		"displayName": "Col. Staff",
		"photoURL":    "https://demo-storage.example.com/avatars/portrait.png",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Col. Staff", decode(t, w)["displayName"])

	// The edit lands in the users collection keyed by identity id.
	doc, err := env.store.Get(t.Context(), identitydomain.UsersCollection, userID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Col. Staff", doc.Fields["displayName"])
	assert.Equal(t, "https://demo-storage.example.com/avatars/portrait.png", doc.Fields["photoURL"])

	empty := env.do(t, http.MethodPatch, "/v1/auth/me", reqBody{}, cookie)
	assert.Equal(t, http.StatusBadRequest, empty.Code)

	blank := env.do(t, http.MethodPatch, "/v1/auth/me", reqBody{"displayName": "  "}, cookie)
	assert.Equal(t, http.StatusBadRequest, blank.Code)
}

func TestProviderLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/login/google", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "demo@google.com", decode(t, w)["email"])

	bad := env.do(t, http.MethodPost, "/v1/auth/login/facebook", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	w := env.do(t, http.MethodPost, "/v1/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	me := env.do(t, http.MethodGet, "/v1/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/cadets", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCadetCRUD(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	created := env.do(t, http.MethodPost, "/v1/cadets", reqBody{
		"name": "Sarah Johnson",
		"rank": "Cadet Colonel",
		"unit": "Alpha Company",
		"gpa":  3.8,
	}, cookie)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	id := decode(t, created)["id"].(string)

	got := env.do(t, http.MethodGet, "/v1/cadets/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "Sarah Johnson", decode(t, got)["name"])
	assert.Equal(t, "Active", decode(t, got)["status"])

	patched := env.do(t, http.MethodPatch, "/v1/cadets/"+id, reqBody{"rank": "Cadet Major"}, cookie)
	require.Equal(t, http.StatusOK, patched.Code)
	body := decode(t, patched)
	assert.Equal(t, "Cadet Major", body["rank"])
	assert.Equal(t, "Sarah Johnson", body["name"])

	deleted := env.do(t, http.MethodDelete, "/v1/cadets/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, deleted.Code)

	missing := env.do(t, http.MethodGet, "/v1/cadets/"+id, nil, cookie)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCadetListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	cookie := env.login(t)

	all := env.do(t, http.MethodGet, "/v1/cadets", nil, cookie)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Len(t, decode(t, all)["cadets"], 4)

	alpha := env.do(t, http.MethodGet, "/v1/cadets?unit=Alpha+Company", nil, cookie)
	require.Equal(t, http.StatusOK, alpha.Code)
	assert.Len(t, decode(t, alpha)["cadets"], 2)

	search := env.do(t, http.MethodGet, "/v1/cadets?search=chen", nil, cookie)
	require.Equal(t, http.StatusOK, search.Code)
	assert.Len(t, decode(t, search)["cadets"], 1)
}

func TestUnitAndAwardListing(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	cookie := env.login(t)

	units := env.do(t, http.MethodGet, "/v1/units?type=Special+Unit", nil, cookie)
	require.Equal(t, http.StatusOK, units.Code)
	assert.Len(t, decode(t, units)["units"], 2)

	awards := env.do(t, http.MethodGet, "/v1/awards?category=Academic", nil, cookie)
	require.Equal(t, http.StatusOK, awards.Code)
	assert.Len(t, decode(t, awards)["awards"], 1)

	searched := env.do(t, http.MethodGet, "/v1/awards?search=drill", nil, cookie)
	require.Equal(t, http.StatusOK, searched.Code)
	assert.Len(t, decode(t, searched)["awards"], 1)
}

func TestInvalidCadetRejected(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	w := env.do(t, http.MethodPost, "/v1/cadets", reqBody{"name": "  "}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartUpload(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	buf, contentType := multipartUpload(t, "portrait.png", "image/png", bytes.Repeat([]byte{1}, 64))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/avatar", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.True(t, strings.HasPrefix(body["url"].(string), "https://demo-storage.example.com/"))
}

func TestUploadDocumentRejectsWrongType(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	buf, contentType := multipartUpload(t, "archive.zip", "application/zip", bytes.Repeat([]byte{1}, 64))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/document", buf)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	errObj := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, "invalid_request", errObj["type"])
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)

	var last int
	for i := 0; i < 8; i++ {
		w := env.do(t, http.MethodPost, "/v1/auth/login", reqBody{"email": "a@b.c", "password": "bad"})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
