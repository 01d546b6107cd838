package update

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/ghl/internal/cli/command"
	versioncmd "github.com/thomas-vilte/ghl/internal/cli/command/version"
	"github.com/thomas-vilte/ghl/internal/config"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/ui"
	selfupdate "github.com/thomas-vilte/ghl/internal/update"
	appversion "github.com/thomas-vilte/ghl/internal/version"
	"github.com/urfave/cli/v3"
)

type binaryUpdater interface {
	Update(ctx context.Context) error
}

// UpdateCommandFactory builds the "update" command, which replaces the
// running binary when a newer release exists.
type UpdateCommandFactory struct {
	out      io.Writer
	current  string
	releases versioncmd.ReleaseSource
	updater  binaryUpdater
}

type Option func(*UpdateCommandFactory)

func WithOutput(out io.Writer) Option {
	return func(f *UpdateCommandFactory) {
		f.out = out
	}
}

func WithReleaseSource(r versioncmd.ReleaseSource) Option {
	return func(f *UpdateCommandFactory) {
		f.releases = r
	}
}

func WithUpdater(u binaryUpdater) Option {
	return func(f *UpdateCommandFactory) {
		f.updater = u
	}
}

func WithCurrentVersion(v string) Option {
	return func(f *UpdateCommandFactory) {
		f.current = v
	}
}

func NewUpdateCommandFactory(opts ...Option) *UpdateCommandFactory {
	f := &UpdateCommandFactory{
		out:     os.Stdout,
		current: appversion.Version,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *UpdateCommandFactory) CreateCommand(t *i18n.Translations, settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: t.GetMessage("update_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = command.Context(ctx, cmd)

			releases, err := versioncmd.ReleasesFor(f.releases, settings)
			if err != nil {
				return err
			}
			updater := f.updater
			if updater == nil {
				updater = selfupdate.NewUpdater()
			}

			reporter := ui.NewReporter(f.out)
			reporter.Start(t.GetMessage("update.checking", 0, nil))
			status, err := selfupdate.NewChecker(f.current, releases).Check(ctx)
			if err != nil {
				reporter.Stop()
				return err
			}
			if !status.Available {
				reporter.Success(t.GetMessage("update.already_latest", 0, map[string]interface{}{"Version": status.Latest}))
				return nil
			}

			reporter.Start(t.GetMessage("update.downloading", 0, map[string]interface{}{"Version": status.Latest}))
			if err := updater.Update(ctx); err != nil {
				reporter.Stop()
				return err
			}
			reporter.Success(t.GetMessage("update.success", 0, nil))
			return nil
		},
	}
}
