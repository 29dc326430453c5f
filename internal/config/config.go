package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port            string
	DBURL           string
	DBLogLevel      string
	RunMigrations   bool
	SaveDebounce    time.Duration
	AssetDir        string
	AssetBucket     string
	ThumbnailBucket string
	// GCPCredentials is the base64 encoded service account json
	GCPCredentials string
	GCPProjectID   string
	CORSOrigins    string
	RenderDebug    bool
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, filling defaults.
func FromEnv(getenv func(string) string) *Config {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	debounce := time.Second
	if ms, err := strconv.Atoi(get("SAVE_DEBOUNCE_MS", "")); err == nil && ms > 0 {
		debounce = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		Port:            get("PORT", "3000"),
		DBURL:           get("DB_URL", ""),
		DBLogLevel:      get("DB_LOG_LEVEL", "warn"),
		RunMigrations:   parseBool(get("RUN_MIGRATIONS", "false")),
		SaveDebounce:    debounce,
		AssetDir:        get("ASSET_DIR", "./public"),
		AssetBucket:     get("ASSET_BUCKET", ""),
		ThumbnailBucket: get("THUMBNAIL_BUCKET", ""),
		GCPCredentials:  get("GCP_SERVICE_ACCOUNT_CREDENTIALS", ""),
		GCPProjectID:    get("GOOGLE_CLOUD_PROJECT_ID", ""),
		CORSOrigins:     get("CORS_ORIGINS", "*"),
		RenderDebug:     parseBool(get("RENDER_DEBUG", "false")),
	}
}

// UsesGCS reports whether any bucket is configured.
func (c *Config) UsesGCS() bool {
	return c.AssetBucket != "" || c.ThumbnailBucket != ""
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
