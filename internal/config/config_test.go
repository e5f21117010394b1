package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 7331, cfg.Preview.Port)
	assert.Equal(t, 2*time.Second, cfg.Preview.Highlight)
	assert.Equal(t, "@every 30s", cfg.Autosave.Schedule)
	assert.True(t, cfg.Templates.Watch)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".productdesc.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: postgres
  host: db
preview:
  port: 9000
  highlight: 500ms
`), 0644))

	t.Setenv("PRODUCTDESC_PREVIEW_PORT", "9100")
	t.Setenv("PRODUCTDESC_PREVIEW_ALLOWED_ORIGINS", "a.example,b.example")

	v := newViper()
	BindEnv(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "db", cfg.Storage.Host)
	assert.Equal(t, 9100, cfg.Preview.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Preview.Highlight)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Preview.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	v := newViper()
	v.Set("storage.driver", "oracle")
	_, err := Load(v)
	assert.Error(t, err)

	v = newViper()
	v.Set("storage.driver", "mongo")
	_, err = Load(v)
	assert.Error(t, err, "mongo needs a uri")

	v.Set("storage.mongo_uri", "mongodb://localhost:27017")
	_, err = Load(v)
	assert.NoError(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "", ExpandHome(""))
}
