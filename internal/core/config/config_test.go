package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	p := writeYAML(t, `
app:
  env: test
  http:
    port: 9090
  cors_origins: ["http://localhost:5173"]
jwt:
  secret: s3cret
seed:
  admin_password: admin123
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "test", c.App.Env)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, c.App.CORSOrigins)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "admin:", c.Storage.Prefix)
	assert.Equal(t, 120, c.JWT.AccessTokenTTLMin)
	assert.EqualValues(t, 10, c.Seed.LowStock)
	assert.Equal(t, "admin123", c.Seed.AdminPassword)
	assert.EqualValues(t, 300, c.App.Limits.MaxInFlight)
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeYAML(t, `
jwt:
  secret: s3cret
redis:
  addr: localhost:6379
`)
	t.Setenv("APP_STORAGE_DRIVER", "redis")
	t.Setenv("APP_APP_HTTP_PORT", "7070")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "redis", c.Storage.Driver)
	assert.Equal(t, 7070, c.App.HTTP.Port)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing secret": "storage:\n  driver: memory\n",
		"bad driver":     "jwt:\n  secret: x\nstorage:\n  driver: mongo\n",
		"redis no addr":  "jwt:\n  secret: x\nstorage:\n  driver: redis\n",
		"sql no dsn":     "jwt:\n  secret: x\nstorage:\n  driver: sql\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
