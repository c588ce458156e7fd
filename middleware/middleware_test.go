package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/caseledger/userctx"
)

func newSessionServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	sessioner, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  "test_session",
		Gclifetime:  3600,
		Maxlifetime: 3600,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(sessioner)
	r.Get("/login/{role}", func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		_ = sess.Set(SessionUserID, "7")
		_ = sess.Set(SessionUsername, "layla")
		_ = sess.Set(SessionRole, chi.URLParam(r, "role"))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := userctx.GetActor(r.Context())
			_ = json.NewEncoder(w).Encode(actor)
		})
		r.With(RequireAdmin).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRequireAuth_NoSession(t *testing.T) {
	srv, client := newSessionServer(t)

	resp := get(t, client, srv.URL+"/whoami")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRequireAuth_PutsActorInContext(t *testing.T) {
	srv, client := newSessionServer(t)
	get(t, client, srv.URL+"/login/user")

	resp := get(t, client, srv.URL+"/whoami")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var actor struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actor))
	assert.Equal(t, "7", actor.ID)
	assert.Equal(t, "layla", actor.Username)
	assert.Equal(t, "user", actor.Role)
}

func TestRequireAuth_UnknownRoleIsUser(t *testing.T) {
	srv, client := newSessionServer(t)
	get(t, client, srv.URL+"/login/superuser")

	assert.Equal(t, http.StatusForbidden, get(t, client, srv.URL+"/admin").StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	srv, client := newSessionServer(t)

	get(t, client, srv.URL+"/login/user")
	assert.Equal(t, http.StatusForbidden, get(t, client, srv.URL+"/admin").StatusCode)

	get(t, client, srv.URL+"/login/admin")
	assert.Equal(t, http.StatusOK, get(t, client, srv.URL+"/admin").StatusCode)
}

func TestRequestLogger_OnlyMutations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, buf.String())

	req = httptest.NewRequest(http.MethodPatch, "/api/records/71", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "method=PATCH")
	assert.Contains(t, out, "path=/api/records/71")
	assert.Contains(t, out, "status=202")
	assert.Contains(t, out, "ip=10.0.0.1")
	assert.Contains(t, out, "user=anonymous")
}

func TestGetIPAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:54321"
	assert.Equal(t, "192.168.1.5", getIPAddress(req))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getIPAddress(req))
}
