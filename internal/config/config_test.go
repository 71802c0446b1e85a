package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
streaks:
  timezone: America/Bogota
scraper:
  similarity_threshold: 0.85
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "America/Bogota", cfg.Streaks.Timezone)
	assert.Equal(t, "0 18 * * *", cfg.Streaks.ReminderCron)
	assert.InDelta(t, 0.85, cfg.Scraper.SimilarityThreshold, 1e-9)
	assert.Equal(t, 30, cfg.Scraper.CacheTTLMinutes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("WIKISTARS_SERVER_PORT", "7070")
	t.Setenv("WIKISTARS_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "server:\n  port: 70000\n"},
		{"threshold", "scraper:\n  similarity_threshold: 1.5\n"},
		{"admin without password", "auth:\n  admin_username: root\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestWikipediaURL(t *testing.T) {
	cfg := ScraperConfig{WikipediaLang: "es"}
	assert.Equal(t, "https://es.wikipedia.org", cfg.WikipediaURL())

	cfg.WikipediaBaseURL = "http://127.0.0.1:8081/"
	assert.Equal(t, "http://127.0.0.1:8081", cfg.WikipediaURL())

	assert.Equal(t, "https://en.wikipedia.org", (&ScraperConfig{}).WikipediaURL())
}

func TestServerAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
}
