package prconfig

import (
	"context"
	"errors"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/thomas-vilte/ghl/internal/prompt"
)

// Config is built once per run and never modified afterwards.
type Config struct {
	PRName     string
	Branch     string
	CommitType CommitType
}

// New derives branch and title together from the collected answers.
func New(slug string, commitType CommitType, scope, name string) (Config, error) {
	message := DeriveCommitMessage(commitType, scope, name)
	branch, title, err := DeriveBranchAndTitle(slug, commitType, message)
	if err != nil {
		return Config{}, err
	}
	return Config{PRName: title, Branch: branch, CommitType: commitType}, nil
}

// Builder asks the questions that turn user input into a Config. It holds
// no I/O of its own, everything goes through the Prompter.
type Builder struct {
	prompter prompt.Prompter
	t        *i18n.Translations
}

func NewBuilder(p prompt.Prompter, t *i18n.Translations) *Builder {
	return &Builder{prompter: p, t: t}
}

func (b *Builder) Build(ctx context.Context) (Config, error) {
	slug, err := b.collectLinearBranchSlug(ctx)
	if err != nil {
		return Config{}, err
	}
	commitType, scope, err := b.collectCommitType(ctx)
	if err != nil {
		return Config{}, err
	}
	name, err := b.collectCommitName(ctx)
	if err != nil {
		return Config{}, err
	}

	cfg, err := New(slug, commitType, scope, name)
	if err != nil {
		return Config{}, err
	}
	logger.Debug(ctx, "pull request config derived", "branch", cfg.Branch, "title", cfg.PRName)
	return cfg, nil
}

// Summary lists the five actions a confirmed run performs. draft selects
// how the pull request step is described.
func (b *Builder) Summary(cfg Config, draft bool) (header string, lines []string) {
	openPR := "summary.open_pr"
	if !draft {
		openPR = "summary.open_ready_pr"
	}
	header = b.t.GetMessage("summary.header", 0, nil)
	lines = []string{
		b.t.GetMessage("summary.create_branch", 0, map[string]interface{}{"Branch": cfg.Branch}),
		b.t.GetMessage("summary.empty_commit", 0, nil),
		b.t.GetMessage("summary.push", 0, nil),
		b.t.GetMessage(openPR, 0, map[string]interface{}{"Title": cfg.PRName}),
		b.t.GetMessage("summary.assign", 0, nil),
	}
	return header, lines
}

// Confirm asks for a yes/no answer. A closed input counts as a no.
func (b *Builder) Confirm(ctx context.Context) (bool, error) {
	ok, err := b.prompter.Confirm(ctx, b.t.GetMessage("prompt.confirm", 0, nil))
	if errors.Is(err, domainErrors.ErrPromptCancelled) {
		return false, nil
	}
	return ok, err
}

func (b *Builder) collectLinearBranchSlug(ctx context.Context) (string, error) {
	return b.prompter.Text(ctx, prompt.TextSpec{
		Message:    b.t.GetMessage("prompt.branch_slug", 0, nil),
		Validators: []prompt.Validator{prompt.NotEmpty},
	})
}

func (b *Builder) collectCommitType(ctx context.Context) (CommitType, string, error) {
	choices := make([]prompt.Choice, 0, len(CommitTypes))
	for _, ct := range CommitTypes {
		choices = append(choices, prompt.Choice{
			Value:       string(ct),
			Description: b.t.GetMessage(ct.descriptionID(), 0, nil),
		})
	}

	value, err := b.prompter.Select(ctx,
		b.t.GetMessage("prompt.commit_type", 0, nil),
		b.t.GetMessage("prompt.commit_type_hint", 0, map[string]interface{}{"Max": len(choices)}),
		choices,
	)
	if err != nil {
		return "", "", err
	}
	commitType, err := ParseCommitType(value)
	if err != nil {
		return "", "", err
	}

	scope, err := b.prompter.Text(ctx, prompt.TextSpec{
		Message: b.t.GetMessage("prompt.commit_scope", 0, nil),
	})
	if err != nil {
		return "", "", err
	}
	return commitType, scope, nil
}

func (b *Builder) collectCommitName(ctx context.Context) (string, error) {
	return b.prompter.Text(ctx, prompt.TextSpec{
		Message:    b.t.GetMessage("prompt.commit_name", 0, nil),
		Validators: []prompt.Validator{prompt.NotEmpty},
	})
}
