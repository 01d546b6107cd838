// Package command holds what every ghl subcommand shares.
package command

import (
	"context"

	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/urfave/cli/v3"
)

const (
	FlagDebug   = "debug"
	FlagVerbose = "verbose"
)

// GlobalFlags are accepted before and after any subcommand.
func GlobalFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  FlagDebug,
			Usage: t.GetMessage("flag_debug_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  FlagVerbose,
			Usage: t.GetMessage("flag_verbose_usage", 0, nil),
		},
	}
}

// Context sets up logging from the global flags and returns ctx carrying
// the logger.
func Context(ctx context.Context, cmd *cli.Command) context.Context {
	log := logger.Initialize(cmd.Bool(FlagDebug), cmd.Bool(FlagVerbose))
	return logger.WithLogger(ctx, log.With("command", cmd.Name))
}
