package config

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/ghl/internal/cli/command"
	"github.com/thomas-vilte/ghl/internal/config"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/thomas-vilte/ghl/internal/prompt"
	"github.com/thomas-vilte/ghl/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConfigCommandFactory builds the "config" command. It asks for the token
// and the default description; an empty answer keeps what is stored.
type ConfigCommandFactory struct {
	in    io.Reader
	out   io.Writer
	store config.CredentialStore
}

type Option func(*ConfigCommandFactory)

func WithIO(in io.Reader, out io.Writer) Option {
	return func(f *ConfigCommandFactory) {
		f.in = in
		f.out = out
	}
}

func WithCredentialStore(s config.CredentialStore) Option {
	return func(f *ConfigCommandFactory) {
		f.store = s
	}
}

func NewConfigCommandFactory(opts ...Option) *ConfigCommandFactory {
	f := &ConfigCommandFactory{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ConfigCommandFactory) CreateCommand(t *i18n.Translations, settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = command.Context(ctx, cmd)

			if err := config.EnsureSettingsFile(settings); err != nil {
				return err
			}

			store := f.store
			if store == nil {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				store = config.NewFileStore(dir)
			}

			p := prompt.NewTerminal(f.in, f.out, prompt.WithTranslations(t))
			token := prompt.TextSpec{Message: t.GetMessage("prompt.token", 0, nil)}
			if err := f.update(ctx, p, t, token, "config.token_set", store.SetToken); err != nil {
				return err
			}
			description := prompt.TextSpec{
				Message:   t.GetMessage("prompt.description", 0, map[string]interface{}{"Terminator": prompt.BlockTerminator}),
				Multiline: true,
			}
			return f.update(ctx, p, t, description, "config.description_set", store.SetDescription)
		},
	}
}

func (f *ConfigCommandFactory) update(ctx context.Context, p prompt.Prompter, t *i18n.Translations, spec prompt.TextSpec, doneID string, set func(string) error) error {
	value, err := p.Text(ctx, spec)
	if err != nil {
		return err
	}
	if value == "" {
		ui.PrintInfo(f.out, t.GetMessage("config.skipped", 0, nil))
		return nil
	}
	if err := set(value); err != nil {
		return err
	}
	logger.Info(ctx, "credential updated", "saved", doneID)
	ui.PrintSuccess(f.out, t.GetMessage(doneID, 0, nil))
	return nil
}
