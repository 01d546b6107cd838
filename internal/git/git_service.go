package git

import (
	"bufio"
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/logger"
	"github.com/thomas-vilte/ghl/internal/runner"
)

const defaultRemote = "origin"

var (
	sshRemote   = regexp.MustCompile(`^(?:ssh://)?[^@/]+@([^:/]+)[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)
	httpsRemote = regexp.MustCompile(`^https?://(?:[^@/]+@)?([^/]+)/([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// GitService drives the local checkout: mutations go through the git
// executable, remote metadata is read from the repository config.
type GitService struct {
	runner runner.Runner
	dir    string
}

// NewGitService works on the repository containing dir (the working
// directory when empty).
func NewGitService(r runner.Runner, dir string) *GitService {
	if dir == "" {
		dir = "."
	}
	return &GitService{runner: r, dir: dir}
}

func (s *GitService) CreateBranch(ctx context.Context, name string) error {
	if _, err := s.runner.Run(ctx, "git", "switch", "-c", name); err != nil {
		return domainErrors.ErrCreateBranch.
			WithError(err).
			WithContext("branch", name).
			WithContext("stderr", runner.Stderr(err))
	}
	logger.Info(ctx, "branch created", "branch", name)
	return nil
}

func (s *GitService) CreateEmptyCommit(ctx context.Context, message string) error {
	if _, err := s.runner.Run(ctx, "git", "commit", "--allow-empty", "-m", message); err != nil {
		return domainErrors.ErrCreateCommit.
			WithError(err).
			WithContext("stderr", runner.Stderr(err))
	}
	logger.Info(ctx, "empty commit created")
	return nil
}

// Push publishes the branch and sets origin as its upstream.
func (s *GitService) Push(ctx context.Context, branch string) error {
	if _, err := s.runner.Run(ctx, "git", "push", "-u", defaultRemote, branch); err != nil {
		return domainErrors.ErrPush.
			WithError(err).
			WithContext("branch", branch).
			WithContext("stderr", runner.Stderr(err))
	}
	logger.Info(ctx, "branch pushed", "branch", branch)
	return nil
}

// CurrentRepositorySlug returns "OWNER/REPO" for the origin remote, or for
// the first remote by name when there is no origin.
func (s *GitService) CurrentRepositorySlug(ctx context.Context) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(s.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", domainErrors.ErrRepoNotFound.WithError(err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return "", domainErrors.ErrRepoNotFound.WithError(err)
	}

	remote, ok := cfg.Remotes[defaultRemote]
	if !ok {
		names := make([]string, 0, len(cfg.Remotes))
		for name := range cfg.Remotes {
			names = append(names, name)
		}
		if len(names) == 0 {
			return "", domainErrors.ErrRepoNotFound
		}
		sort.Strings(names)
		remote = cfg.Remotes[names[0]]
		logger.Debug(ctx, "no origin remote, using first remote", "remote", remote.Name)
	}
	if len(remote.URLs) == 0 {
		return "", domainErrors.ErrRepoNotFound.WithContext("remote", remote.Name)
	}

	slug, err := ParseRepoSlug(remote.URLs[0])
	if err != nil {
		return "", err
	}
	logger.Debug(ctx, "repository resolved", "repo", slug, "remote", remote.Name)
	return slug, nil
}

// ParseRepoSlug extracts "OWNER/REPO" from an HTTPS or SSH remote URL.
func ParseRepoSlug(url string) (string, error) {
	url = strings.TrimSpace(url)

	var matches []string
	switch {
	case httpsRemote.MatchString(url):
		matches = httpsRemote.FindStringSubmatch(url)
	case sshRemote.MatchString(url):
		matches = sshRemote.FindStringSubmatch(url)
	}
	if len(matches) < 4 {
		return "", domainErrors.ErrUnsupportedRemote.WithContext("url", url)
	}

	return matches[2] + "/" + strings.TrimSuffix(matches[3], ".git"), nil
}

// DefaultBranchName reads the "HEAD branch: <name>" line of
// `git remote show origin`.
func (s *GitService) DefaultBranchName(ctx context.Context) (string, error) {
	res, err := s.runner.Run(ctx, "git", "remote", "show", defaultRemote)
	if err != nil {
		return "", domainErrors.ErrRemoteShow.
			WithError(err).
			WithContext("stderr", runner.Stderr(err))
	}

	branch, err := parseHeadBranch(res.Stdout)
	if err != nil {
		return "", err
	}
	logger.Debug(ctx, "default branch resolved", "branch", branch)
	return branch, nil
}

var errNoHeadBranch = errors.New("no HEAD branch line")

func parseHeadBranch(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if name, ok := strings.CutPrefix(line, "HEAD branch:"); ok {
			name = strings.TrimSpace(name)
			// shown while the remote HEAD is ambiguous or unset
			if name == "" || name == "(unknown)" {
				break
			}
			return name, nil
		}
	}
	return "", domainErrors.ErrDefaultBranchNotFound.WithError(errNoHeadBranch)
}
