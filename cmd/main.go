package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/ghl/internal/cli/command"
	configcmd "github.com/thomas-vilte/ghl/internal/cli/command/config"
	"github.com/thomas-vilte/ghl/internal/cli/command/help"
	"github.com/thomas-vilte/ghl/internal/cli/command/pr"
	updatecmd "github.com/thomas-vilte/ghl/internal/cli/command/update"
	versioncmd "github.com/thomas-vilte/ghl/internal/cli/command/version"
	"github.com/thomas-vilte/ghl/internal/cli/registry"
	"github.com/thomas-vilte/ghl/internal/config"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/ui"
	"github.com/urfave/cli/v3"
)

// shortAliases keeps the single dash spellings working; the cli parser
// would read them as flags.
var shortAliases = map[string]string{
	"-c":  "create",
	"-v":  "version",
	"-up": "update",
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	settings, trans, err := loadEnvironment()
	if err != nil {
		if trans == nil {
			trans, _ = i18n.NewTranslations(config.LangEN, "")
		}
		ui.HandleAppError(stderr, err, trans)
		return 1
	}

	app, err := newApp(settings, trans, stdout, stderr)
	if err != nil {
		ui.HandleAppError(stderr, err, trans)
		return 1
	}

	if err := app.Run(ctx, normalizeArgs(args)); err != nil {
		if errors.Is(err, domainErrors.ErrPromptCancelled) {
			ui.PrintInfo(stdout, trans.GetMessage("progress.aborted", 0, nil))
			return 0
		}
		ui.HandleAppError(stderr, err, trans)
		return 1
	}
	return 0
}

func loadEnvironment() (*config.Settings, *i18n.Translations, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, nil, err
	}
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return nil, nil, err
	}
	trans, err := i18n.NewTranslations(settings.Language, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading translations: %w", err)
	}
	return settings, trans, nil
}

func newApp(settings *config.Settings, trans *i18n.Translations, stdout, stderr io.Writer) (*cli.Command, error) {
	commands := registry.NewRegistry(settings, trans)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"create", pr.NewCreateCommandFactory(pr.WithIO(os.Stdin, stdout))},
		{"config", configcmd.NewConfigCommandFactory(configcmd.WithIO(os.Stdin, stdout))},
		{"version", versioncmd.NewVersionCommandFactory(versioncmd.WithOutput(stdout))},
		{"update", updatecmd.NewUpdateCommandFactory(updatecmd.WithOutput(stdout))},
		{"help", help.NewHelpCommandFactory()},
	}
	for _, f := range factories {
		if err := commands.Register(f.name, f.factory); err != nil {
			return nil, err
		}
	}

	return &cli.Command{
		Name:      "ghl",
		Usage:     trans.GetMessage("app_usage", 0, nil),
		Flags:     command.GlobalFlags(trans),
		Commands:  commands.CreateCommands(),
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}, nil
}

// normalizeArgs rewrites the first non-flag argument when it is one of
// shortAliases.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 1; i < len(out); i++ {
		if name, ok := shortAliases[out[i]]; ok {
			out[i] = name
			return out
		}
		if out[i] != "--"+command.FlagDebug && out[i] != "--"+command.FlagVerbose {
			return out
		}
	}
	return out
}
