package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

const (
	tokenFileName       = "token"
	descriptionFileName = "desc.md"
	lockFileName        = ".lock"
)

// CredentialStore keeps the GitHub token and the default pull request body
// between runs.
type CredentialStore interface {
	Token() (string, error)
	SetToken(token string) error
	Description() (string, error)
	SetDescription(desc string) error
}

// FileStore stores each credential as a flat file in Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Token returns $GHL_TOKEN when set, otherwise the stored token.
// A missing or blank token is ErrTokenMissing.
func (s *FileStore) Token() (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return token, nil
	}
	data, err := s.read(tokenFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domainErrors.ErrTokenMissing
		}
		return "", err
	}
	token := strings.TrimSpace(data)
	if token == "" {
		return "", domainErrors.ErrTokenMissing
	}
	return token, nil
}

// SetToken writes the token. Blank input leaves the stored file untouched.
func (s *FileStore) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.write(tokenFileName, token)
}

// Description returns the default body, empty when none was configured.
func (s *FileStore) Description() (string, error) {
	data, err := s.read(descriptionFileName)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return data, err
}

// SetDescription writes the default body. Blank input leaves the stored
// file untouched.
func (s *FileStore) SetDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return nil
	}
	return s.write(descriptionFileName, desc)
}

func (s *FileStore) read(name string) (string, error) {
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		return "", domainErrors.ErrReadCredentials.WithError(err).WithContext("path", path)
	}
	return string(data), nil
}

// write replaces name atomically while holding the directory lock so two
// concurrent `ghl config` runs cannot interleave.
func (s *FileStore) write(name, content string) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", s.Dir)
	}

	fileLock := flock.New(filepath.Join(s.Dir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err)
	}
	if !locked {
		return domainErrors.ErrCredentialsLocked
	}
	defer func() { _ = fileLock.Unlock() }()

	path := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, name+".*.tmp")
	if err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", path)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return domainErrors.ErrWriteCredentials.WithError(err).WithContext("path", path)
	}
	return nil
}
