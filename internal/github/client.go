package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/thomas-vilte/ghl/internal/version"
	"golang.org/x/oauth2"
)

const (
	mediaType      = "application/vnd.github+json"
	DefaultTimeout = 30 * time.Second
)

type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
}

type IssuesService interface {
	AddAssignees(ctx context.Context, owner, repo string, number int, assignees []string) (*github.Issue, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type ReleasesService interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

// PullRequest is what gets opened: Repo is "OWNER/REPO".
type PullRequest struct {
	Repo  string
	Title string
	Head  string
	Base  string
	Body  string
	Draft bool
}

type GitHubClient struct {
	prService      PullRequestsService
	issuesService  IssuesService
	usersService   UsersService
	releaseService ReleasesService
	timeout        time.Duration
}

type clientOptions struct {
	baseURL string
	timeout time.Duration
}

type Option func(*clientOptions)

// WithBaseURL points the client at another API root, e.g. a GitHub
// Enterprise "https://ghe.example.com/api/v3/".
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// WithTimeout bounds every call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// acceptTransport replaces the versioned media type go-github sends by default.
type acceptTransport struct {
	base http.RoundTripper
}

func (t *acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", mediaType)
	return t.base.RoundTrip(r)
}

// NewGitHubClient builds a client authenticated with token. An empty token
// gives an anonymous client, enough for public release lookups.
func NewGitHubClient(token string, opts ...Option) (*GitHubClient, error) {
	o := &clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := &http.Client{Transport: http.DefaultTransport}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Transport = &acceptTransport{base: httpClient.Transport}

	client := github.NewClient(httpClient)
	client.UserAgent = "ghl/" + version.Version

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, domainErrors.ErrInvalidSettings.WithError(err).WithContext("api_base_url", o.baseURL)
		}
		client.BaseURL = u
	}

	return &GitHubClient{
		prService:      client.PullRequests,
		issuesService:  client.Issues,
		usersService:   client.Users,
		releaseService: client.Repositories,
		timeout:        o.timeout,
	}, nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issuesService IssuesService,
	usersService UsersService,
	releaseService ReleasesService,
	timeout time.Duration,
) *GitHubClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GitHubClient{
		prService:      prService,
		issuesService:  issuesService,
		usersService:   usersService,
		releaseService: releaseService,
		timeout:        timeout,
	}
}

// CreatePullRequest opens the pull request and returns its html_url.
func (ghc *GitHubClient) CreatePullRequest(ctx context.Context, pr PullRequest) (string, error) {
	owner, repo, err := splitRepo(pr.Repo)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ghc.timeout)
	defer cancel()

	logger.Debug(ctx, "creating pull request", "repo", pr.Repo, "head", pr.Head, "base", pr.Base, "draft", pr.Draft)
	created, resp, err := ghc.prService.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(pr.Title),
		Head:  github.Ptr(pr.Head),
		Base:  github.Ptr(pr.Base),
		Body:  github.Ptr(pr.Body),
		Draft: github.Ptr(pr.Draft),
	})
	if err != nil {
		return "", ghc.wrapError(err, resp, domainErrors.ErrCreatePR.WithContext("repo", pr.Repo))
	}

	htmlURL := created.GetHTMLURL()
	if htmlURL == "" {
		return "", domainErrors.ErrCreatePR.WithError(errors.New("response has no html_url"))
	}
	logger.Info(ctx, "pull request created", "url", htmlURL)
	return htmlURL, nil
}

// CurrentUsername returns the login of the token owner.
func (ghc *GitHubClient) CurrentUsername(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ghc.timeout)
	defer cancel()

	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		return "", ghc.wrapError(err, resp, domainErrors.ErrGetUser)
	}
	if user.GetLogin() == "" {
		return "", domainErrors.ErrGetUser.WithError(errors.New("response has no login"))
	}
	return user.GetLogin(), nil
}

// AssignSelf adds username to the assignees of the pull request.
func (ghc *GitHubClient) AssignSelf(ctx context.Context, repoSlug string, number int, username string) error {
	owner, repo, err := splitRepo(repoSlug)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, ghc.timeout)
	defer cancel()

	_, resp, err := ghc.issuesService.AddAssignees(ctx, owner, repo, number, []string{username})
	if err != nil {
		return ghc.wrapError(err, resp, domainErrors.ErrAssign.
			WithContext("repo", repoSlug).
			WithContext("pr_number", number))
	}
	logger.Info(ctx, "assigned pull request", "pr_number", number, "user", username)
	return nil
}

// LatestRelease returns the tag name of the latest published release.
func (ghc *GitHubClient) LatestRelease(ctx context.Context, repoSlug string) (string, error) {
	owner, repo, err := splitRepo(repoSlug)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ghc.timeout)
	defer cancel()

	release, resp, err := ghc.releaseService.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return "", ghc.wrapError(err, resp, domainErrors.ErrLatestRelease.WithContext("repo", repoSlug))
	}
	return release.GetTagName(), nil
}

func (ghc *GitHubClient) wrapError(err error, resp *github.Response, sentinel *domainErrors.AppError) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainErrors.ErrRequestTimeout.
			WithError(err).
			WithContext("operation", sentinel.Message).
			WithContext("timeout", ghc.timeout.String())
	}

	appErr := sentinel.WithError(err)
	if resp == nil || resp.Response == nil {
		return appErr
	}

	appErr = appErr.
		WithContext("status", resp.StatusCode).
		WithContext("response_body", responseBody(resp, err))
	if resp.StatusCode == http.StatusUnauthorized {
		appErr = appErr.WithSuggestion("Generate a new token at: https://github.com/settings/tokens\nThen run: ghl config")
	}
	return appErr
}

// responseBody returns the raw error body go-github left on the response,
// or the decoded error when the body is gone.
func responseBody(resp *github.Response, err error) string {
	if resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(data) > 0 {
			return strings.TrimSpace(string(data))
		}
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		if data, marshalErr := json.Marshal(errResp); marshalErr == nil {
			return string(data)
		}
	}
	return ""
}

func splitRepo(slug string) (string, string, error) {
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", domainErrors.ErrUnsupportedRemote.WithError(fmt.Errorf("invalid repository %q", slug))
	}
	return owner, repo, nil
}
