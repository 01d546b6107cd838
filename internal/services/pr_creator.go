package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/thomas-vilte/ghl/internal/config"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/github"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/thomas-vilte/ghl/internal/prconfig"
)

// State is the step a run has reached.
type State string

const (
	StateInit          State = "init"
	StateConfiguring   State = "configuring"
	StateConfirmed     State = "confirmed"
	StateBranchCreated State = "branch_created"
	StateCommitted     State = "committed"
	StatePushed        State = "pushed"
	StatePRCreated     State = "pr_created"
	StateAssigned      State = "assigned"
	StateDone          State = "done"
	StateAborted       State = "aborted"
	StateFailed        State = "failed"
)

type gitService interface {
	CreateBranch(ctx context.Context, name string) error
	CreateEmptyCommit(ctx context.Context, message string) error
	Push(ctx context.Context, branch string) error
	CurrentRepositorySlug(ctx context.Context) (string, error)
	DefaultBranchName(ctx context.Context) (string, error)
}

// PRClient is the part of the GitHub API a run needs.
type PRClient interface {
	CreatePullRequest(ctx context.Context, pr github.PullRequest) (string, error)
	CurrentUsername(ctx context.Context) (string, error)
	AssignSelf(ctx context.Context, repoSlug string, number int, username string) error
}

// PRClientFactory builds the API client once the token is known.
type PRClientFactory func(token string) (PRClient, error)

type configBuilder interface {
	Build(ctx context.Context) (prconfig.Config, error)
	Summary(cfg prconfig.Config, draft bool) (string, []string)
	Confirm(ctx context.Context) (bool, error)
}

type progressReporter interface {
	Start(msg string)
	Success(msg string)
	Warning(msg string)
	Info(msg string)
	Failure(msg string)
	Stop()
}

type browserOpener interface {
	Open(ctx context.Context, url string) error
}

// Result describes how far a run went.
type Result struct {
	State  State
	Config prconfig.Config
	URL    string
	Number int
}

// PRCreator runs the whole flow: ask, confirm, branch, commit, push, open
// the pull request and assign it. It stops at the first failure and never
// undoes completed steps.
type PRCreator struct {
	git           gitService
	clientFactory PRClientFactory
	builder       configBuilder
	credentials   config.CredentialStore
	reporter      progressReporter
	browser       browserOpener
	summary       func(header string, lines []string)
	trans         *i18n.Translations
	draft         bool
	openBrowser   bool

	state State
}

type PRCreatorOption func(*PRCreator)

func WithGitService(g gitService) PRCreatorOption {
	return func(s *PRCreator) {
		s.git = g
	}
}

func WithPRClientFactory(f PRClientFactory) PRCreatorOption {
	return func(s *PRCreator) {
		s.clientFactory = f
	}
}

func WithConfigBuilder(b configBuilder) PRCreatorOption {
	return func(s *PRCreator) {
		s.builder = b
	}
}

func WithCredentials(c config.CredentialStore) PRCreatorOption {
	return func(s *PRCreator) {
		s.credentials = c
	}
}

func WithReporter(r progressReporter) PRCreatorOption {
	return func(s *PRCreator) {
		s.reporter = r
	}
}

// WithBrowser opens the created pull request with b when enabled.
func WithBrowser(b browserOpener, enabled bool) PRCreatorOption {
	return func(s *PRCreator) {
		s.browser = b
		s.openBrowser = enabled
	}
}

func WithSummaryPrinter(print func(header string, lines []string)) PRCreatorOption {
	return func(s *PRCreator) {
		s.summary = print
	}
}

func WithDraft(draft bool) PRCreatorOption {
	return func(s *PRCreator) {
		s.draft = draft
	}
}

func NewPRCreator(trans *i18n.Translations, opts ...PRCreatorOption) *PRCreator {
	s := &PRCreator{
		trans:   trans,
		draft:   true,
		summary: func(string, []string) {},
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PRCreator) State() State {
	return s.state
}

func (s *PRCreator) Run(ctx context.Context) (Result, error) {
	log := logger.FromContext(ctx)

	token, err := s.credentials.Token()
	if err != nil {
		return s.fail(ctx, Result{}, err)
	}
	body, err := s.credentials.Description()
	if err != nil {
		return s.fail(ctx, Result{}, err)
	}

	s.state = StateConfiguring
	cfg, err := s.builder.Build(ctx)
	if errors.Is(err, domainErrors.ErrPromptCancelled) {
		return s.abort(Result{}), nil
	}
	if err != nil {
		return s.fail(ctx, Result{}, err)
	}
	res := Result{Config: cfg}

	header, lines := s.builder.Summary(cfg, s.draft)
	s.summary(header, lines)
	ok, err := s.builder.Confirm(ctx)
	if err != nil {
		return s.fail(ctx, res, err)
	}
	if !ok {
		return s.abort(res), nil
	}
	s.state = StateConfirmed
	ctx = logger.With(ctx, "branch", cfg.Branch)
	log.Debug("run confirmed", "branch", cfg.Branch, "title", cfg.PRName)

	// resolved before any mutation so a checkout without a usable origin
	// fails without leaving a branch behind
	s.reporter.Start(s.msg("progress.resolving_repository"))
	repo, err := s.git.CurrentRepositorySlug(ctx)
	if err != nil {
		return s.fail(ctx, res, err)
	}
	base, err := s.git.DefaultBranchName(ctx)
	if err != nil {
		return s.fail(ctx, res, err)
	}
	client, err := s.clientFactory(token)
	if err != nil {
		return s.fail(ctx, res, err)
	}
	s.reporter.Stop()
	ctx = logger.With(ctx, "repo", repo)

	if err := s.step(ctx, "progress.creating_branch", "progress.branch_created", StateBranchCreated, func() error {
		return s.git.CreateBranch(ctx, cfg.Branch)
	}); err != nil {
		return s.fail(ctx, res, err)
	}

	if err := s.step(ctx, "progress.creating_commit", "progress.commit_created", StateCommitted, func() error {
		return s.git.CreateEmptyCommit(ctx, cfg.PRName)
	}); err != nil {
		return s.fail(ctx, res, err)
	}

	if err := s.step(ctx, "progress.pushing", "progress.pushed", StatePushed, func() error {
		return s.git.Push(ctx, cfg.Branch)
	}); err != nil {
		return s.fail(ctx, res, err)
	}

	if err := s.step(ctx, "progress.creating_pr", "progress.pr_created", StatePRCreated, func() error {
		url, err := client.CreatePullRequest(ctx, github.PullRequest{
			Repo:  repo,
			Title: cfg.PRName,
			Head:  cfg.Branch,
			Base:  base,
			Body:  body,
			Draft: s.draft,
		})
		res.URL = strings.ReplaceAll(url, `"`, "")
		return err
	}); err != nil {
		return s.fail(ctx, res, err)
	}

	number, err := ParsePRNumber(res.URL)
	if err != nil {
		return s.fail(ctx, res, err)
	}
	res.Number = number
	ctx = logger.With(ctx, "pr_number", number)

	if err := s.step(ctx, "progress.assigning", "progress.assigned", StateAssigned, func() error {
		username, err := client.CurrentUsername(ctx)
		if err != nil {
			return err
		}
		return client.AssignSelf(ctx, repo, number, username)
	}); err != nil {
		return s.fail(ctx, res, err)
	}

	s.state = StateDone
	res.State = StateDone
	s.reporter.Success(s.trans.GetMessage("progress.success", 0, map[string]interface{}{"URL": res.URL}))

	if s.openBrowser && s.browser != nil {
		if err := s.browser.Open(ctx, res.URL); err != nil {
			logger.Warn(ctx, "could not open browser", "error", err)
			s.reporter.Warning(s.trans.GetMessage("progress.open_browser_failed", 0, map[string]interface{}{"Error": err.Error()}))
		}
	}
	return res, nil
}

// step runs one external call under a spinner and advances to next on success.
func (s *PRCreator) step(ctx context.Context, startID, doneID string, next State, call func() error) error {
	s.reporter.Start(s.msg(startID))
	if err := call(); err != nil {
		return err
	}
	s.state = next
	logger.Debug(ctx, "step finished", "state", string(next))
	s.reporter.Success(s.msg(doneID))
	return nil
}

func (s *PRCreator) abort(res Result) Result {
	s.state = StateAborted
	res.State = StateAborted
	s.reporter.Stop()
	s.reporter.Info(s.msg("progress.aborted"))
	return res
}

func (s *PRCreator) fail(ctx context.Context, res Result, err error) (Result, error) {
	logger.Error(ctx, "pull request flow failed", err, "state", string(s.state))
	s.state = StateFailed
	res.State = StateFailed
	s.reporter.Stop()
	return res, err
}

func (s *PRCreator) msg(id string) string {
	return s.trans.GetMessage(id, 0, nil)
}

// ParsePRNumber takes the last "/" separated segment of a pull request URL.
func ParsePRNumber(url string) (int, error) {
	segments := strings.Split(strings.ReplaceAll(url, `"`, ""), "/")
	last := segments[len(segments)-1]
	number, err := strconv.Atoi(last)
	if err != nil || number <= 0 {
		return 0, domainErrors.ErrInvalidPRURL.WithContext("url", url)
	}
	return number, nil
}
