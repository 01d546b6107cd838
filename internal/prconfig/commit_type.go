package prconfig

import (
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

type CommitType string

const (
	Feat     CommitType = "feat"
	Fix      CommitType = "fix"
	Change   CommitType = "change"
	Refactor CommitType = "refactor"
	Chore    CommitType = "chore"
	Test     CommitType = "test"
	Docs     CommitType = "docs"
	CI       CommitType = "ci"
	Remove   CommitType = "remove"
	Perf     CommitType = "perf"
	Revert   CommitType = "revert"
)

// CommitTypes is the presentation order of the selection list.
var CommitTypes = []CommitType{Feat, Fix, Change, Refactor, Chore, Test, Docs, CI, Remove, Perf, Revert}

// branchPrefixes maps every commit type to the first segment of its branch.
// It must stay total over CommitTypes.
var branchPrefixes = map[CommitType]string{
	Feat:     "feat",
	Fix:      "fix",
	Change:   "change",
	Refactor: "refactor",
	Chore:    "chore",
	Test:     "test",
	Docs:     "docs",
	CI:       "ci",
	Remove:   "remove",
	Perf:     "perf",
	Revert:   "revert",
}

func ParseCommitType(s string) (CommitType, error) {
	ct := CommitType(s)
	if _, ok := branchPrefixes[ct]; !ok {
		return "", domainErrors.ErrUnknownCommitType.WithContext("commit_type", s)
	}
	return ct, nil
}

// BranchPrefix returns the branch segment for the type or ErrUnknownCommitType.
func (c CommitType) BranchPrefix() (string, error) {
	prefix, ok := branchPrefixes[c]
	if !ok {
		return "", domainErrors.ErrUnknownCommitType.WithContext("commit_type", string(c))
	}
	return prefix, nil
}

func (c CommitType) descriptionID() string {
	return "commit_type." + string(c)
}
