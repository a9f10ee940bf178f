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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api/admin", cfg.APIBaseURL)
	assert.Equal(t, 8090, cfg.DashboardPort)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 24.0, cfg.DefaultCycleHours)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/admin")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("SEARCH_DEBOUNCE_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/admin", cfg.APIBaseURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
}

func TestTokenFileWinsOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("file-token\n"), 0o600))
	t.Setenv("ADMIN_TOKEN", "env-token")
	t.Setenv("ADMIN_TOKEN_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.AdminToken)
}

func TestValidateDiagRequiresMongoURI(t *testing.T) {
	cfg := &Config{MongoDatabase: "mining_app"}
	assert.Error(t, cfg.ValidateDiag())

	cfg.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.ValidateDiag())
}
