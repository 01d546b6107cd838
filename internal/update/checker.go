package update

import (
	"context"
	"strings"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/logger"
	"golang.org/x/mod/semver"
)

// Repository is where ghl releases are published.
const Repository = "thomas-vilte/ghl"

type releaseSource interface {
	LatestRelease(ctx context.Context, repoSlug string) (string, error)
}

// Status compares the running build with the latest published release.
type Status struct {
	Current   string
	Latest    string
	Available bool
}

type Checker struct {
	current  string
	releases releaseSource
	repo     string
}

func NewChecker(current string, releases releaseSource) *Checker {
	return &Checker{
		current:  current,
		releases: releases,
		repo:     Repository,
	}
}

func (c *Checker) Check(ctx context.Context) (Status, error) {
	latest, err := c.releases.LatestRelease(ctx, c.repo)
	if err != nil {
		return Status{Current: c.current}, err
	}
	if latest == "" {
		return Status{Current: c.current}, domainErrors.ErrLatestRelease.WithContext("repo", c.repo)
	}

	status := Status{
		Current:   c.current,
		Latest:    latest,
		Available: IsUpdateAvailable(c.current, latest),
	}
	logger.Debug(ctx, "release checked", "current", status.Current, "latest", status.Latest, "available", status.Available)
	return status, nil
}

// IsUpdateAvailable reports whether latest is newer than current. Tags that
// are not semver fall back to a plain inequality check.
func IsUpdateAvailable(current, latest string) bool {
	current = withV(current)
	latest = withV(latest)

	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return current != latest
	}
	return semver.Compare(latest, current) > 0
}

func withV(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
