package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabasePath string
	UseHTTPS     bool
	// Session lifetime in seconds
	SessionLifetime int
	LogFormat       string

	// Google Sheets
	SpreadsheetID         string
	SheetName             string
	UpdatesSheetName      string
	GoogleCredentials     string
	GoogleCredentialsFile string

	CacheDuration time.Duration
	CacheBackend  string // "memory" | "redis"
	RedisURL      string

	AuditStore   string // "sqlite" | "sheet"
	AuditMode    string // "async" | "sync"
	StoreTimeout time.Duration

	// Attachments
	AttachmentBackend string // "drive" | "minio" | "none"
	DriveRootFolderID string
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioBucket       string
	MinioUseSSL       bool

	// OIDC login, disabled when the issuer is empty
	OIDCIssuerURL    string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCCallbackURL  string

	SeedAdminPassword string
	SeedUserPassword  string
}

// Load reads an optional .env file, then the environment
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getenv("PORT", "8080"),
		DatabasePath:    getenv("DATABASE_PATH", "caseledger.db"),
		UseHTTPS:        getenvBool("USE_HTTPS", false),
		SessionLifetime: getenvInt("SESSION_LIFETIME", 86400),
		LogFormat:       getenv("LOG_FORMAT", "text"),

		SpreadsheetID:         getenv("SPREADSHEET_ID", ""),
		SheetName:             getenv("SHEET_NAME", "Sheet1"),
		UpdatesSheetName:      getenv("UPDATES_SHEET_NAME", "UpdatesLog"),
		GoogleCredentials:     getenv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE", ""),

		CacheDuration: getenvDuration("CACHE_DURATION", 120*time.Second),
		CacheBackend:  getenv("CACHE_BACKEND", "memory"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),

		AuditStore:   getenv("AUDIT_STORE", "sqlite"),
		AuditMode:    getenv("AUDIT_MODE", "async"),
		StoreTimeout: getenvDuration("STORE_TIMEOUT", 15*time.Second),

		AttachmentBackend: getenv("ATTACHMENT_BACKEND", "none"),
		DriveRootFolderID: getenv("DRIVE_ROOT_FOLDER_ID", ""),
		MinioEndpoint:     getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:       getenv("MINIO_BUCKET", "caseledger"),
		MinioUseSSL:       getenvBool("MINIO_USE_SSL", false),

		OIDCIssuerURL:    getenv("OIDC_ISSUER_URL", ""),
		OIDCClientID:     getenv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getenv("OIDC_CLIENT_SECRET", ""),
		OIDCCallbackURL:  getenv("OIDC_CALLBACK_URL", ""),

		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", ""),
		SeedUserPassword:  getenv("SEED_USER_PASSWORD", ""),
	}
}

// LoadFile loads variables from an env file without overriding ones already set
func LoadFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// DemoMode reports whether no spreadsheet is configured
func (c Config) DemoMode() bool {
	return c.SpreadsheetID == ""
}

// NewLogger builds the process logger for the configured format
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getenvDuration accepts Go durations ("90s") or a bare number of seconds
func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
