package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "SPREADSHEET_ID", "CACHE_DURATION", "STORE_TIMEOUT", "AUDIT_MODE", "USE_HTTPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.CacheDuration)
	assert.Equal(t, 15*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "async", cfg.AuditMode)
	assert.Equal(t, "Sheet1", cfg.SheetName)
	assert.Equal(t, "UpdatesLog", cfg.UpdatesSheetName)
	assert.False(t, cfg.UseHTTPS)
	assert.True(t, cfg.DemoMode())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("SPREADSHEET_ID", "abc")
	t.Setenv("CACHE_DURATION", "30")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("USE_HTTPS", "true")
	t.Setenv("SESSION_LIFETIME", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.CacheDuration)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.True(t, cfg.UseHTTPS)
	assert.Equal(t, 86400, cfg.SessionLifetime)
	assert.False(t, cfg.DemoMode())
}

func TestGetenvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getenvDuration("SOME_DURATION", time.Minute))
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	Config{LogFormat: "json"}.NewLogger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	Config{LogFormat: "text"}.NewLogger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
