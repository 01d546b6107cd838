package github

import (
	"context"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	var pr *github.PullRequest
	if v := args.Get(0); v != nil {
		pr = v.(*github.PullRequest)
	}
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	return pr, resp, args.Error(2)
}

type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) AddAssignees(ctx context.Context, owner, repo string, number int, assignees []string) (*github.Issue, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, assignees)
	var issue *github.Issue
	if v := args.Get(0); v != nil {
		issue = v.(*github.Issue)
	}
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	return issue, resp, args.Error(2)
}

type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	var u *github.User
	if v := args.Get(0); v != nil {
		u = v.(*github.User)
	}
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	return u, resp, args.Error(2)
}

type MockReleasesService struct {
	mock.Mock
}

func (m *MockReleasesService) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	var release *github.RepositoryRelease
	if v := args.Get(0); v != nil {
		release = v.(*github.RepositoryRelease)
	}
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	return release, resp, args.Error(2)
}
