package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  driver: sqlite
  sqlite_path: alloc.db
subscription:
  funcs_on_expire:
    - publish_expired
    - remove_users
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", testYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"publish_expired", "remove_users"}, cfg.Subscription.FuncsOnExpire)
	assert.Equal(t, DefaultAccountAttributeName, cfg.Subscription.AccountAttribute())
	assert.Equal(t, "subscription_usage", cfg.Queue.UsageQueue)
}

func TestLoad_PrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", testYAML)
	writeConfig(t, dir, "config.local.yaml", "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAccountAttribute(t *testing.T) {
	assert.Equal(t, "slurm_account_name", SubscriptionConfig{}.AccountAttribute())
	assert.Equal(t, "cloud_account", SubscriptionConfig{AccountAttributeName: "cloud_account"}.AccountAttribute())
}
