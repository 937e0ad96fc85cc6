package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Timezone)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, "5 0 * * *", cfg.SeasonRolloverCron)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "DATABASE_URL=postgres://file\nJWT_SECRET=from-file\nPORT=4000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "4000", cfg.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "JWT_TTL")
	assert.Contains(t, err.Error(), "TIMEZONE")
	assert.Equal(t, time.UTC, cfg.Location())
}
