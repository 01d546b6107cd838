package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

const (
	dirName          = ".ghl"
	settingsFileName = "config.json"

	EnvHome  = "GHL_HOME"
	EnvLang  = "GHL_LANG"
	EnvToken = "GHL_TOKEN"

	defaultLang           = LangEN
	defaultTimeoutSeconds = 30
	defaultOpenBrowser    = true
	defaultDraft          = true
	DefaultAPIBaseURL     = "https://api.github.com/"
)

// Settings are the tunables stored next to the credentials.
type Settings struct {
	Language              string `json:"language"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	OpenBrowser           bool   `json:"open_browser"`
	Draft                 bool   `json:"draft"`
	APIBaseURL            string `json:"api_base_url"`

	PathFile string `json:"-"`
}

// Dir returns the per-user directory, $GHL_HOME or ~/.ghl.
func Dir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", domainErrors.ErrReadCredentials.WithError(err)
	}
	return filepath.Join(home, dirName), nil
}

func DefaultSettings() *Settings {
	return &Settings{
		Language:              defaultLang,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
		OpenBrowser:           defaultOpenBrowser,
		Draft:                 defaultDraft,
		APIBaseURL:            DefaultAPIBaseURL,
	}
}

// LoadSettings reads dir/config.json. A missing file gives the defaults and
// is not written here, see EnsureSettingsFile. Fields missing from the file
// keep their default value. GHL_LANG overrides the stored language without
// being written back.
func LoadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, settingsFileName)

	settings := DefaultSettings()
	settings.PathFile = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, domainErrors.ErrReadCredentials.WithError(err).WithContext("path", path)
	default:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, domainErrors.ErrInvalidSettings.
				WithError(err).
				WithContext("path", path).
				WithSuggestion(fmt.Sprintf("Fix or delete %s", path))
		}
	}

	if lang := os.Getenv(EnvLang); lang != "" {
		settings.Language = lang
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// EnsureSettingsFile writes s to its path when no settings file exists yet.
// A GHL_LANG override is not persisted.
func EnsureSettingsFile(s *Settings) error {
	if s.PathFile == "" {
		return nil
	}
	if _, err := os.Stat(s.PathFile); !os.IsNotExist(err) {
		return nil
	}
	stored := *s
	if os.Getenv(EnvLang) != "" {
		stored.Language = defaultLang
	}
	return SaveSettings(&stored)
}

func SaveSettings(s *Settings) error {
	if err := validateSettings(s); err != nil {
		return err
	}
	if s.PathFile == "" {
		return domainErrors.ErrInvalidSettings.WithError(fmt.Errorf("settings path is not set"))
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.PathFile), 0o700); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", s.PathFile)
	}
	if err := os.WriteFile(s.PathFile, data, 0o644); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", s.PathFile)
	}
	return nil
}

func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

func validateSettings(s *Settings) error {
	if s.RequestTimeoutSeconds <= 0 {
		return domainErrors.ErrInvalidSettings.
			WithError(fmt.Errorf("request_timeout_seconds must be greater than 0, got %d", s.RequestTimeoutSeconds))
	}
	if !isSupportedLanguage(s.Language) {
		return domainErrors.ErrInvalidSettings.
			WithError(fmt.Errorf("language %q is not supported", s.Language)).
			WithSuggestion(fmt.Sprintf("Use one of: %v", SupportedLanguages()))
	}
	u, err := url.Parse(s.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return domainErrors.ErrInvalidSettings.
			WithError(fmt.Errorf("api_base_url %q must be an absolute URL", s.APIBaseURL))
	}
	return nil
}
