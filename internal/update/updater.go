package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/logger"
)

// DefaultDownloadBaseURL always points at the newest release assets.
const DefaultDownloadBaseURL = "https://github.com/" + Repository + "/releases/latest/download/"

const binaryName = "ghl"

// Updater replaces the running executable with the latest released binary.
type Updater struct {
	httpClient *http.Client
	baseURL    string
	goos       string
	goarch     string
	executable func() (string, error)
}

type UpdaterOption func(*Updater)

func WithHTTPClient(c *http.Client) UpdaterOption {
	return func(u *Updater) {
		u.httpClient = c
	}
}

func WithDownloadBaseURL(base string) UpdaterOption {
	return func(u *Updater) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u.baseURL = base
	}
}

func WithPlatform(goos, goarch string) UpdaterOption {
	return func(u *Updater) {
		u.goos = goos
		u.goarch = goarch
	}
}

// WithExecutable overrides how the path of the binary to replace is found.
func WithExecutable(fn func() (string, error)) UpdaterOption {
	return func(u *Updater) {
		u.executable = fn
	}
}

func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    DefaultDownloadBaseURL,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
		executable: os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// AssetNames lists the release assets to try, most specific first.
func (u *Updater) AssetNames() []string {
	platform := fmt.Sprintf("%s-%s-%s", binaryName, u.goos, u.goarch)
	if u.goos == "windows" {
		return []string{platform + ".exe", binaryName + ".exe"}
	}
	return []string{platform, binaryName}
}

func (u *Updater) Update(ctx context.Context) error {
	currentExec, err := u.executable()
	if err != nil {
		return domainErrors.ErrUpdateFailed.WithError(err)
	}
	currentExec, err = filepath.EvalSymlinks(currentExec)
	if err != nil {
		return domainErrors.ErrUpdateFailed.WithError(err).WithContext("path", currentExec)
	}

	// downloaded next to the executable so the final rename stays on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(currentExec), ".ghl-update-*")
	if err != nil {
		return domainErrors.ErrUpdateFailed.WithError(err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	err = u.download(ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		return domainErrors.ErrUpdateFailed.WithError(err)
	}
	return replace(ctx, tmpPath, currentExec)
}

func (u *Updater) download(ctx context.Context, dst io.Writer) error {
	var lastStatus int
	for _, name := range u.AssetNames() {
		url := u.baseURL + name
		logger.Debug(ctx, "downloading release asset", "url", url)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return domainErrors.ErrUpdateFailed.WithError(err)
		}
		resp, err := u.httpClient.Do(req)
		if err != nil {
			return domainErrors.ErrUpdateFailed.WithError(err).WithContext("url", url)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			lastStatus = resp.StatusCode
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return domainErrors.ErrUpdateFailed.
				WithError(fmt.Errorf("download returned HTTP %d", resp.StatusCode)).
				WithContext("url", url)
		}

		_, err = io.Copy(dst, resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return domainErrors.ErrUpdateFailed.WithError(err).WithContext("url", url)
		}
		return nil
	}
	return domainErrors.ErrUpdateFailed.
		WithError(fmt.Errorf("no release asset for %s/%s (HTTP %d)", u.goos, u.goarch, lastStatus))
}

// replace swaps newPath into target keeping target+".backup" until the swap
// succeeded, and puts the backup back otherwise.
func replace(ctx context.Context, newPath, target string) error {
	backupPath := target + ".backup"
	if err := os.Rename(target, backupPath); err != nil {
		return domainErrors.ErrUpdateFailed.WithError(err).WithContext("path", target)
	}

	if err := os.Rename(newPath, target); err != nil {
		if restoreErr := os.Rename(backupPath, target); restoreErr != nil {
			logger.Error(ctx, "could not restore backup", restoreErr, "backup", backupPath)
		}
		return domainErrors.ErrUpdateFailed.WithError(err).WithContext("path", target)
	}

	if err := os.Remove(backupPath); err != nil {
		logger.Warn(ctx, "could not remove backup", "backup", backupPath, "error", err)
	}
	return nil
}
