package version

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/ghl/internal/cli/command"
	"github.com/thomas-vilte/ghl/internal/config"
	"github.com/thomas-vilte/ghl/internal/github"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/ui"
	"github.com/thomas-vilte/ghl/internal/update"
	appversion "github.com/thomas-vilte/ghl/internal/version"
	"github.com/urfave/cli/v3"
)

type ReleaseSource interface {
	LatestRelease(ctx context.Context, repoSlug string) (string, error)
}

// VersionCommandFactory builds the "version" command.
type VersionCommandFactory struct {
	out      io.Writer
	current  string
	releases ReleaseSource
}

type Option func(*VersionCommandFactory)

func WithOutput(out io.Writer) Option {
	return func(f *VersionCommandFactory) {
		f.out = out
	}
}

func WithReleaseSource(r ReleaseSource) Option {
	return func(f *VersionCommandFactory) {
		f.releases = r
	}
}

func WithCurrentVersion(v string) Option {
	return func(f *VersionCommandFactory) {
		f.current = v
	}
}

func NewVersionCommandFactory(opts ...Option) *VersionCommandFactory {
	f := &VersionCommandFactory{
		out:     os.Stdout,
		current: appversion.Version,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *VersionCommandFactory) CreateCommand(t *i18n.Translations, settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: t.GetMessage("version_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = command.Context(ctx, cmd)

			releases, err := ReleasesFor(f.releases, settings)
			if err != nil {
				return err
			}

			ui.PrintInfo(f.out, t.GetMessage("version.current", 0, map[string]interface{}{"Version": f.current}))
			status, err := update.NewChecker(f.current, releases).Check(ctx)
			if err != nil {
				return err
			}
			ui.PrintInfo(f.out, t.GetMessage("version.latest", 0, map[string]interface{}{"Version": status.Latest}))

			if status.Available {
				ui.PrintWarning(f.out, t.GetMessage("version.update_hint", 0, nil))
				return nil
			}
			ui.PrintSuccess(f.out, t.GetMessage("version.up_to_date", 0, nil))
			return nil
		},
	}
}

// ReleasesFor returns r, or an anonymous GitHub client built from settings
// when r is nil.
func ReleasesFor(r ReleaseSource, settings *config.Settings) (ReleaseSource, error) {
	if r != nil {
		return r, nil
	}
	client, err := github.NewGitHubClient("",
		github.WithBaseURL(settings.APIBaseURL),
		github.WithTimeout(settings.RequestTimeout()),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
