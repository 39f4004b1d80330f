package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("REPORT_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, time.Minute, cfg.Reports.CacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Import.MaxFileSizeBytes)
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	require.ErrorContains(t, err, "ADMIN_ACCESS_CODE")

	t.Setenv("ADMIN_ACCESS_CODE_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitAndTrim(" http://a , ,http://b"))
}
