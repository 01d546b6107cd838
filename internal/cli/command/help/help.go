package help

import (
	"context"

	"github.com/thomas-vilte/ghl/internal/config"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/urfave/cli/v3"
)

type HelpCommandFactory struct{}

func NewHelpCommandFactory() *HelpCommandFactory {
	return &HelpCommandFactory{}
}

func (f *HelpCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Settings) *cli.Command {
	return &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   t.GetMessage("help_command_usage", 0, nil),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd.Root())
		},
	}
}
