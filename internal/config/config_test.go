package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(func(string) string { return "" })

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Second, cfg.SaveDebounce)
	assert.Equal(t, "./public", cfg.AssetDir)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.False(t, cfg.RunMigrations)
	assert.False(t, cfg.UsesGCS())
}

func TestFromEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":             "8080",
		"SAVE_DEBOUNCE_MS": "250",
		"RUN_MIGRATIONS":   "true",
		"THUMBNAIL_BUCKET": "thumbs",
		"RENDER_DEBUG":     "1",
	}
	cfg := FromEnv(func(k string) string { return env[k] })

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.SaveDebounce)
	assert.True(t, cfg.RunMigrations)
	assert.True(t, cfg.RenderDebug)
	assert.True(t, cfg.UsesGCS())
}

func TestBadDebounceFallsBack(t *testing.T) {
	cfg := FromEnv(func(k string) string {
		if k == "SAVE_DEBOUNCE_MS" {
			return "soon"
		}
		return ""
	})
	assert.Equal(t, time.Second, cfg.SaveDebounce)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, logLevel("INFO"))
	assert.Equal(t, logger.Silent, logLevel("silent"))
	assert.Equal(t, logger.Warn, logLevel(""))
}
