package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/runner"
)

func failed(stderr string) error {
	return domainErrors.ErrRunCommand.
		WithError(errors.New("exit status 128")).
		WithContext("stderr", stderr)
}

func TestGitService_Mutations(t *testing.T) {
	t.Run("CreateBranch switches to a new branch", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", []string{"switch", "-c", "feat/eng-1-x"}).Return(runner.Result{}, nil)

		err := NewGitService(r, "").CreateBranch(context.Background(), "feat/eng-1-x")

		require.NoError(t, err)
		r.AssertExpectations(t)
	})

	t.Run("CreateBranch failure keeps stderr", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", mock.Anything).
			Return(runner.Result{ExitCode: 128}, failed("fatal: a branch named 'feat/x' already exists"))

		err := NewGitService(r, "").CreateBranch(context.Background(), "feat/x")

		assert.ErrorIs(t, err, domainErrors.ErrCreateBranch)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("CreateEmptyCommit allows an empty tree", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", []string{"commit", "--allow-empty", "-m", "feat: x [ENG-1]"}).Return(runner.Result{}, nil)

		err := NewGitService(r, "").CreateEmptyCommit(context.Background(), "feat: x [ENG-1]")

		require.NoError(t, err)
		r.AssertExpectations(t)
	})

	t.Run("CreateEmptyCommit failure", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", mock.Anything).Return(runner.Result{}, failed("Please tell me who you are."))

		err := NewGitService(r, "").CreateEmptyCommit(context.Background(), "x")

		assert.ErrorIs(t, err, domainErrors.ErrCreateCommit)
	})

	t.Run("Push sets the upstream on origin", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", []string{"push", "-u", "origin", "fix/a"}).Return(runner.Result{}, nil)

		err := NewGitService(r, "").Push(context.Background(), "fix/a")

		require.NoError(t, err)
		r.AssertExpectations(t)
	})

	t.Run("Push failure", func(t *testing.T) {
		r := &runner.MockRunner{}
		r.On("Run", mock.Anything, "git", mock.Anything).Return(runner.Result{}, failed("rejected"))

		err := NewGitService(r, "").Push(context.Background(), "fix/a")

		assert.ErrorIs(t, err, domainErrors.ErrPush)
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeProcess))
	})
}

func TestGitService_DefaultBranchName(t *testing.T) {
	const remoteShow = `* remote origin
  Fetch URL: git@github.com:acme/widgets.git
  Push  URL: git@github.com:acme/widgets.git
  HEAD branch: main
  Remote branches:
    main tracked
`

	tests := []struct {
		name     string
		stdout   string
		runErr   error
		expected string
		wantErr  error
	}{
		{name: "reads HEAD branch", stdout: remoteShow, expected: "main"},
		{name: "branch with slash", stdout: "  HEAD branch: release/2.x\n", expected: "release/2.x"},
		{name: "no HEAD line", stdout: "* remote origin\n", wantErr: domainErrors.ErrDefaultBranchNotFound},
		{name: "unknown HEAD", stdout: "  HEAD branch: (unknown)\n", wantErr: domainErrors.ErrDefaultBranchNotFound},
		{name: "command fails", runErr: failed("fatal: 'origin' does not appear to be a git repository"), wantErr: domainErrors.ErrRemoteShow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &runner.MockRunner{}
			r.On("Run", mock.Anything, "git", []string{"remote", "show", "origin"}).Return(runner.Result{Stdout: tt.stdout}, tt.runErr)

			branch, err := NewGitService(r, "").DefaultBranchName(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, branch)
		})
	}
}

func TestParseRepoSlug(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://github.com/acme/widgets.git", "acme/widgets"},
		{"git@github.com:acme/widgets.git", "acme/widgets"},
		{"https://github.com/acme/widgets", "acme/widgets"},
		{"git@github.com:acme/widgets", "acme/widgets"},
		{"ssh://git@github.com/acme/widgets.git", "acme/widgets"},
		{"https://token@github.com/acme/widgets.git", "acme/widgets"},
		{"https://github.example.com/acme/my.tool.git", "acme/my.tool"},
		{"  git@github.com:acme/widgets.git\n", "acme/widgets"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			slug, err := ParseRepoSlug(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, slug)

			again, err := ParseRepoSlug("https://github.com/" + slug + ".git")
			require.NoError(t, err)
			assert.Equal(t, slug, again)
		})
	}

	for _, url := range []string{"/srv/git/widgets.git", "file:///srv/git/widgets.git", "github.com/acme/widgets", ""} {
		t.Run("unsupported "+url, func(t *testing.T) {
			_, err := ParseRepoSlug(url)
			assert.ErrorIs(t, err, domainErrors.ErrUnsupportedRemote)
		})
	}
}

func initRepo(t *testing.T, remotes map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	for name, url := range remotes {
		_, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
		require.NoError(t, err)
	}
	return dir
}

func TestGitService_CurrentRepositorySlug(t *testing.T) {
	t.Run("uses origin", func(t *testing.T) {
		dir := initRepo(t, map[string]string{
			"origin":   "git@github.com:acme/widgets.git",
			"upstream": "https://github.com/other/widgets.git",
		})

		slug, err := NewGitService(&runner.MockRunner{}, dir).CurrentRepositorySlug(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", slug)
	})

	t.Run("falls back to the first remote by name", func(t *testing.T) {
		dir := initRepo(t, map[string]string{
			"zeta":  "https://github.com/zeta/repo.git",
			"alpha": "https://github.com/alpha/repo.git",
		})

		slug, err := NewGitService(&runner.MockRunner{}, dir).CurrentRepositorySlug(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "alpha/repo", slug)
	})

	t.Run("finds the repository from a subdirectory", func(t *testing.T) {
		dir := initRepo(t, map[string]string{"origin": "https://github.com/acme/widgets.git"})
		sub := filepath.Join(dir, "pkg", "api")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		slug, err := NewGitService(&runner.MockRunner{}, sub).CurrentRepositorySlug(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", slug)
	})

	t.Run("no remotes", func(t *testing.T) {
		dir := initRepo(t, nil)

		_, err := NewGitService(&runner.MockRunner{}, dir).CurrentRepositorySlug(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrRepoNotFound)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := NewGitService(&runner.MockRunner{}, t.TempDir()).CurrentRepositorySlug(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrRepoNotFound)
	})

	t.Run("unsupported remote", func(t *testing.T) {
		dir := initRepo(t, map[string]string{"origin": "/srv/git/widgets.git"})

		_, err := NewGitService(&runner.MockRunner{}, dir).CurrentRepositorySlug(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrUnsupportedRemote)
	})
}
