package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/thomas-vilte/ghl/internal/runner"
)

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct {
	runner runner.Runner
	goos   string
}

func NewBrowserOpener(r runner.Runner) *BrowserOpener {
	return &BrowserOpener{runner: r, goos: runtime.GOOS}
}

func (b *BrowserOpener) Open(ctx context.Context, url string) error {
	name, args, err := openCommand(b.goos, url)
	if err != nil {
		return err
	}
	_, err = b.runner.Run(ctx, name, args...)
	return err
}

func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("opening a browser is not supported on %s", goos)
	}
}
