package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "./data", cfg.Data.Dir)
	assert.Equal(t, "backups", cfg.Data.BackupDirName)
	assert.Equal(t, 5, cfg.Data.TreeMaxDepth)
	assert.False(t, cfg.Database.SnapshotsEnabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DATA_DIR", "/srv/records")
	v.Set("BACKUP_TREE_DEPTH", 9)
	v.Set("CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg := fromViper(v)

	assert.Equal(t, "/srv/records", cfg.Data.Dir)
	assert.Equal(t, 5, cfg.Data.TreeMaxDepth)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
