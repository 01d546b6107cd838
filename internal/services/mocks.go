package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/ghl/internal/github"
	"github.com/thomas-vilte/ghl/internal/prconfig"
)

type (
	MockGitService struct {
		mock.Mock
	}

	MockPRClient struct {
		mock.Mock
	}

	MockConfigBuilder struct {
		mock.Mock
	}

	MockBrowserOpener struct {
		mock.Mock
	}
)

func (m *MockGitService) CreateBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockGitService) CreateEmptyCommit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockGitService) Push(ctx context.Context, branch string) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockGitService) CurrentRepositorySlug(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) DefaultBranchName(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPRClient) CreatePullRequest(ctx context.Context, pr github.PullRequest) (string, error) {
	args := m.Called(ctx, pr)
	return args.String(0), args.Error(1)
}

func (m *MockPRClient) CurrentUsername(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPRClient) AssignSelf(ctx context.Context, repoSlug string, number int, username string) error {
	args := m.Called(ctx, repoSlug, number, username)
	return args.Error(0)
}

func (m *MockConfigBuilder) Build(ctx context.Context) (prconfig.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(prconfig.Config), args.Error(1)
}

func (m *MockConfigBuilder) Summary(cfg prconfig.Config, draft bool) (string, []string) {
	args := m.Called(cfg, draft)
	return args.String(0), args.Get(1).([]string)
}

func (m *MockConfigBuilder) Confirm(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrowserOpener) Open(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
