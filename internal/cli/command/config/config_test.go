package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/ghl/internal/config"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/urfave/cli/v3"
)

func runConfig(t *testing.T, input string, store config.CredentialStore) (string, error) {
	t.Helper()
	return runConfigWith(t, input, store, config.DefaultSettings())
}

func runConfigWith(t *testing.T, input string, store config.CredentialStore, settings *config.Settings) (string, error) {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	factory := NewConfigCommandFactory(
		WithIO(strings.NewReader(input), out),
		WithCredentialStore(store),
	)
	app := &cli.Command{Commands: []*cli.Command{factory.CreateCommand(trans, settings)}}
	err = app.Run(context.Background(), []string{"ghl", "config"})
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	t.Run("should write both credentials", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(config.EnvToken, "")
		store := config.NewFileStore(dir)

		// Act
		out, err := runConfig(t, "ghp_new\n## Summary\n", store)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "Token set.")
		assert.Contains(t, out, "Default pull request description set.")
		token, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, "ghp_new", token)
		desc, err := store.Description()
		require.NoError(t, err)
		assert.Equal(t, "## Summary", desc)
	})

	t.Run("should keep a multi line description", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(config.EnvToken, "")
		store := config.NewFileStore(dir)

		// Act
		out, err := runConfig(t, "\n## Summary\n\n- [ ] tests\n.\n", store)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "Skipped.")
		assert.Contains(t, out, "Default pull request description set.")
		desc, err := store.Description()
		require.NoError(t, err)
		assert.Equal(t, "## Summary\n\n- [ ] tests", desc)
	})

	t.Run("should leave files untouched when skipped", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(config.EnvToken, "")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("ghp_old"), 0600))
		store := config.NewFileStore(dir)

		// Act
		out, err := runConfig(t, "\n\n", store)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, "Skipped."))
		data, err := os.ReadFile(filepath.Join(dir, "token"))
		require.NoError(t, err)
		assert.Equal(t, "ghp_old", string(data))
		assert.NoFileExists(t, filepath.Join(dir, "desc.md"))
	})

	t.Run("should return the store error", func(t *testing.T) {
		store := &config.MockCredentialStore{}
		store.On("SetToken", "ghp_new").Return(domainErrors.ErrCredentialsLocked)

		// Act
		_, err := runConfig(t, "ghp_new\n", store)

		// Assert
		assert.ErrorIs(t, err, domainErrors.ErrCredentialsLocked)
		store.AssertNotCalled(t, "SetDescription", mock.Anything)
	})

	t.Run("should stop on closed input", func(t *testing.T) {
		store := &config.MockCredentialStore{}

		// Act
		_, err := runConfig(t, "", store)

		// Assert
		assert.ErrorIs(t, err, domainErrors.ErrPromptCancelled)
		assert.Empty(t, store.Calls)
	})

	t.Run("should create the settings file", func(t *testing.T) {
		t.Setenv(config.EnvLang, "")
		t.Setenv(config.EnvToken, "")
		dir := filepath.Join(t.TempDir(), ".ghl")
		settings, err := config.LoadSettings(dir)
		require.NoError(t, err)
		require.NoDirExists(t, dir)

		// Act
		_, err = runConfigWith(t, "\n\n", config.NewFileStore(dir), settings)

		// Assert
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "config.json"))
	})
}
