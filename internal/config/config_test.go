package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

func TestDir(t *testing.T) {
	t.Run("GHL_HOME wins", func(t *testing.T) {
		t.Setenv(EnvHome, "/opt/ghl")

		dir, err := Dir()

		require.NoError(t, err)
		assert.Equal(t, "/opt/ghl", dir)
	})

	t.Run("defaults to ~/.ghl", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvHome, "")
		t.Setenv("HOME", home)

		dir, err := Dir()

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".ghl"), dir)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("uses the defaults without writing on first use", func(t *testing.T) {
		t.Setenv(EnvLang, "")
		dir := filepath.Join(t.TempDir(), ".ghl")

		settings, err := LoadSettings(dir)

		require.NoError(t, err)
		assert.Equal(t, LangEN, settings.Language)
		assert.Equal(t, 30*time.Second, settings.RequestTimeout())
		assert.True(t, settings.OpenBrowser)
		assert.True(t, settings.Draft)
		assert.Equal(t, DefaultAPIBaseURL, settings.APIBaseURL)
		assert.Equal(t, filepath.Join(dir, "config.json"), settings.PathFile)
		assert.NoDirExists(t, dir)
	})

	t.Run("keeps defaults for missing fields", func(t *testing.T) {
		t.Setenv(EnvLang, "")
		dir := t.TempDir()
		writeFile(t, dir, "config.json", `{"language":"es","open_browser":false}`)

		settings, err := LoadSettings(dir)

		require.NoError(t, err)
		assert.Equal(t, LangES, settings.Language)
		assert.False(t, settings.OpenBrowser)
		assert.True(t, settings.Draft)
		assert.Equal(t, 30, settings.RequestTimeoutSeconds)
	})

	t.Run("GHL_LANG overrides the stored language", func(t *testing.T) {
		t.Setenv(EnvLang, "es")
		dir := t.TempDir()

		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		require.NoError(t, EnsureSettingsFile(settings))

		assert.Equal(t, LangES, settings.Language)

		var stored Settings
		data, err := os.ReadFile(filepath.Join(dir, "config.json"))
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &stored))
		assert.Equal(t, LangEN, stored.Language)
	})

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"language":`},
		{name: "zero timeout", content: `{"request_timeout_seconds":0}`},
		{name: "unsupported language", content: `{"language":"fr"}`},
		{name: "relative api url", content: `{"api_base_url":"api.github.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLang, "")
			dir := t.TempDir()
			writeFile(t, dir, "config.json", tt.content)

			_, err := LoadSettings(dir)

			assert.ErrorIs(t, err, domainErrors.ErrInvalidSettings)
		})
	}
}

func TestEnsureSettingsFile(t *testing.T) {
	t.Run("writes the file when missing", func(t *testing.T) {
		t.Setenv(EnvLang, "")
		dir := filepath.Join(t.TempDir(), ".ghl")
		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		settings.OpenBrowser = false

		require.NoError(t, EnsureSettingsFile(settings))

		loaded, err := LoadSettings(dir)
		require.NoError(t, err)
		assert.False(t, loaded.OpenBrowser)
	})

	t.Run("keeps an existing file", func(t *testing.T) {
		t.Setenv(EnvLang, "")
		dir := t.TempDir()
		writeFile(t, dir, "config.json", `{"draft":false}`)
		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		settings.Draft = true

		require.NoError(t, EnsureSettingsFile(settings))

		data, err := os.ReadFile(filepath.Join(dir, "config.json"))
		require.NoError(t, err)
		assert.Equal(t, `{"draft":false}`, string(data))
	})

	t.Run("no path is a no-op", func(t *testing.T) {
		assert.NoError(t, EnsureSettingsFile(DefaultSettings()))
	})
}

func TestSaveSettings(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		t.Setenv(EnvLang, "")
		dir := t.TempDir()
		settings := DefaultSettings()
		settings.PathFile = filepath.Join(dir, "config.json")
		settings.RequestTimeoutSeconds = 5
		settings.APIBaseURL = "https://ghe.example.com/api/v3/"

		require.NoError(t, SaveSettings(settings))
		loaded, err := LoadSettings(dir)

		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, loaded.RequestTimeout())
		assert.Equal(t, "https://ghe.example.com/api/v3/", loaded.APIBaseURL)
	})

	t.Run("requires a path", func(t *testing.T) {
		err := SaveSettings(DefaultSettings())
		assert.ErrorIs(t, err, domainErrors.ErrInvalidSettings)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
