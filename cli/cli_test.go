package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/caseledger/config"
	"github.com/blogem/caseledger/controllers"
	"github.com/blogem/caseledger/database"
	"github.com/blogem/caseledger/models"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DatabasePath:      filepath.Join(t.TempDir(), "test.db"),
		SheetName:         "Sheet1",
		UpdatesSheetName:  "UpdatesLog",
		CacheDuration:     2 * time.Minute,
		CacheBackend:      "memory",
		AuditStore:        "sqlite",
		AuditMode:         "sync",
		StoreTimeout:      time.Second,
		AttachmentBackend: "none",
		SessionLifetime:   3600,
		SeedAdminPassword: "admin-secret",
		SeedUserPassword:  "user-secret",
	}
}

// ServerTestSuite runs the whole HTTP stack against the demo sheet
type ServerTestSuite struct {
	suite.Suite
	app    *App
	server *httptest.Server
}

func (suite *ServerTestSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := NewApp(ctx, testConfig(suite.T()), logger)
	suite.Require().NoError(err)
	suite.Require().NoError(app.SeedUsers(ctx))
	suite.app = app

	r, err := NewRouter(controllers.NewControllers(app.Services, nil, logger), RouterOptions{SessionLifetime: 3600, Logger: logger})
	suite.Require().NoError(err)
	suite.server = httptest.NewServer(r)
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.server.Close()
	suite.NoError(suite.app.Close())
}

func (suite *ServerTestSuite) client() *http.Client {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	return &http.Client{Jar: jar}
}

func (suite *ServerTestSuite) send(client *http.Client, method, path, body string) *http.Response {
	req, err := http.NewRequest(method, suite.server.URL+path, strings.NewReader(body))
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (suite *ServerTestSuite) login(username, password string) *http.Client {
	client := suite.client()
	resp := suite.send(client, http.MethodPost, "/api/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	return client
}

// TestHealth tests the public health check
func (suite *ServerTestSuite) TestHealth() {
	resp := suite.send(suite.client(), http.MethodGet, "/health", "")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

// TestUnauthenticated tests that the API needs a session
func (suite *ServerTestSuite) TestUnauthenticated() {
	client := suite.client()
	assert.Equal(suite.T(), http.StatusUnauthorized, suite.send(client, http.MethodGet, "/api/records", "").StatusCode)
	assert.Equal(suite.T(), http.StatusUnauthorized, suite.send(client, http.MethodPatch, "/api/records/71", `{"ruling":"x"}`).StatusCode)
}

// TestLogin_WrongPassword tests credential rejection
func (suite *ServerTestSuite) TestLogin_WrongPassword() {
	resp := suite.send(suite.client(), http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	resp = suite.send(suite.client(), http.MethodPost, "/api/auth/login", `{"username":"","password":""}`)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

// TestMe tests the session round trip
func (suite *ServerTestSuite) TestMe() {
	client := suite.login("user", "user-secret")

	resp := suite.send(client, http.MethodGet, "/api/auth/me", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var user models.User
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(suite.T(), "user", user.Username)
	assert.Equal(suite.T(), models.RoleUser, user.Role)

	suite.send(client, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, suite.send(client, http.MethodGet, "/api/auth/me", "").StatusCode)
}

// TestMe_UserRemoved tests that a session outliving its user is rejected
func (suite *ServerTestSuite) TestMe_UserRemoved() {
	client := suite.login("user", "user-secret")

	_, err := database.GetDB().Exec("DELETE FROM users WHERE username = ?", "user")
	suite.Require().NoError(err)

	resp := suite.send(client, http.MethodGet, "/api/auth/me", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

// TestUpdateFlow tests an append by a user, then an admin overwrite, and the audit trail
func (suite *ServerTestSuite) TestUpdateFlow() {
	userClient := suite.login("user", "user-secret")
	adminClient := suite.login("admin", "admin-secret")

	resp := suite.send(userClient, http.MethodPatch, "/api/records/75", `{"postponementReason":"للإعلان"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = suite.send(userClient, http.MethodPatch, "/api/records/75", `{"postponementReason":"للمستندات"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var rec map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(suite.T(), "للإعلان\nللمستندات", rec["postponementReason"])

	resp = suite.send(adminClient, http.MethodPatch, "/api/records/75", `{"postponementReason":"نهائي"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = suite.send(userClient, http.MethodGet, "/api/records/75", "")
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(suite.T(), "نهائي", rec["postponementReason"])
	assert.Equal(suite.T(), "admin", rec["lastModifiedBy"])

	resp = suite.send(userClient, http.MethodGet, "/api/records/75/history", "")
	var history []models.AuditEntry
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&history))

	var reasons []string
	for _, e := range history {
		if e.FieldName == "postponementReason" {
			reasons = append(reasons, models.ValueOrEmpty(e.NewValue))
		}
	}
	assert.Equal(suite.T(), []string{"للإعلان", "للإعلان\nللمستندات", "نهائي"}, reasons)

	assert.Equal(suite.T(), http.StatusForbidden, suite.send(userClient, http.MethodGet, "/api/updates", "").StatusCode)
	assert.Equal(suite.T(), http.StatusOK, suite.send(adminClient, http.MethodGet, "/api/updates", "").StatusCode)
}

// TestAttachmentsNotConfigured tests the disabled attachment backend
func (suite *ServerTestSuite) TestAttachmentsNotConfigured() {
	client := suite.login("user", "user-secret")
	resp := suite.send(client, http.MethodPost, "/api/records/75/folder", "")
	assert.Equal(suite.T(), http.StatusServiceUnavailable, resp.StatusCode)
}

// TestServerTestSuite runs the server test suite
func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNewApp_UnknownBackends(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t)
	cfg.CacheBackend = "memcached"
	_, err := NewApp(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "CACHE_BACKEND")

	cfg = testConfig(t)
	cfg.AttachmentBackend = "drive"
	_, err = NewApp(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "google credentials")
}

func TestColumnsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"columns"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "COLUMN")
	assert.Contains(t, out.String(), "nationalId")
}

func TestColumnsCommand_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  - {field: serial, column: B, kind: identity}\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"columns", "--file", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column table")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "export", "user", "columns"})
}
