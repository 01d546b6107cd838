package pr

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/ghl/internal/cli/command"
	"github.com/thomas-vilte/ghl/internal/config"
	"github.com/thomas-vilte/ghl/internal/git"
	"github.com/thomas-vilte/ghl/internal/github"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/prconfig"
	"github.com/thomas-vilte/ghl/internal/prompt"
	"github.com/thomas-vilte/ghl/internal/runner"
	"github.com/thomas-vilte/ghl/internal/services"
	"github.com/thomas-vilte/ghl/internal/ui"
	"github.com/urfave/cli/v3"
)

// CreateCommandFactory builds the "create" command, which runs the whole
// pull request flow in the current checkout.
type CreateCommandFactory struct {
	in      io.Reader
	out     io.Writer
	dir     string
	store   config.CredentialStore
	runner  runner.Runner
	clients services.PRClientFactory
}

type Option func(*CreateCommandFactory)

func WithIO(in io.Reader, out io.Writer) Option {
	return func(f *CreateCommandFactory) {
		f.in = in
		f.out = out
	}
}

// WithWorkDir runs git in dir instead of the working directory.
func WithWorkDir(dir string) Option {
	return func(f *CreateCommandFactory) {
		f.dir = dir
	}
}

func WithCredentialStore(s config.CredentialStore) Option {
	return func(f *CreateCommandFactory) {
		f.store = s
	}
}

func WithRunner(r runner.Runner) Option {
	return func(f *CreateCommandFactory) {
		f.runner = r
	}
}

func WithPRClientFactory(clients services.PRClientFactory) Option {
	return func(f *CreateCommandFactory) {
		f.clients = clients
	}
}

func NewCreateCommandFactory(opts ...Option) *CreateCommandFactory {
	f := &CreateCommandFactory{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *CreateCommandFactory) CreateCommand(t *i18n.Translations, settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:    "create",
		Aliases: []string{"pr"},
		Usage:   t.GetMessage("pr_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = command.Context(ctx, cmd)

			store, err := f.credentialStore()
			if err != nil {
				return err
			}

			r := f.runner
			if r == nil {
				exec := runner.NewExecRunner()
				exec.Dir = f.dir
				r = exec
			}

			clients := f.clients
			if clients == nil {
				clients = githubClients(settings)
			}

			terminal := prompt.NewTerminal(f.in, f.out, prompt.WithTranslations(t))
			creator := services.NewPRCreator(t,
				services.WithGitService(git.NewGitService(r, f.dir)),
				services.WithPRClientFactory(clients),
				services.WithConfigBuilder(prconfig.NewBuilder(terminal, t)),
				services.WithCredentials(store),
				services.WithReporter(ui.NewReporter(f.out)),
				services.WithBrowser(services.NewBrowserOpener(r), settings.OpenBrowser),
				services.WithSummaryPrinter(func(header string, lines []string) {
					ui.PrintSummary(f.out, header, lines)
				}),
				services.WithDraft(settings.Draft),
			)

			_, err = creator.Run(ctx)
			return err
		},
	}
}

func (f *CreateCommandFactory) credentialStore() (config.CredentialStore, error) {
	if f.store != nil {
		return f.store, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return config.NewFileStore(dir), nil
}

func githubClients(settings *config.Settings) services.PRClientFactory {
	return func(token string) (services.PRClient, error) {
		client, err := github.NewGitHubClient(token,
			github.WithBaseURL(settings.APIBaseURL),
			github.WithTimeout(settings.RequestTimeout()),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
