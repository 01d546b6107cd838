package prconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// DeriveCommitMessage formats "<type>(<scope>): <name>", dropping the scope
// when it is blank after trimming.
func DeriveCommitMessage(commitType CommitType, scope, name string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return fmt.Sprintf("%s: %s", commitType, name)
	}
	return fmt.Sprintf("%s(%s): %s", commitType, scope, name)
}

// DeriveBranchAndTitle builds "<prefix>/<slug>" and appends a ticket suffix
// such as " [ENG-123]" to the commit message when the second dash separated
// segment of the slug is an unsigned number. Only the first segment is
// uppercased.
func DeriveBranchAndTitle(slug string, commitType CommitType, commitMessage string) (branch, title string, err error) {
	prefix, err := commitType.BranchPrefix()
	if err != nil {
		return "", "", err
	}
	branch = prefix + "/" + slug
	title = commitMessage

	if ticket, ok := TicketFromSlug(slug); ok {
		title = fmt.Sprintf("%s [%s]", commitMessage, ticket)
	}
	return branch, title, nil
}

// TicketFromSlug returns "ABC-42" for slugs like "abc-42-anything".
func TicketFromSlug(slug string) (string, bool) {
	parts := strings.Split(slug, "-")
	if len(parts) < 2 {
		return "", false
	}
	if _, err := strconv.ParseUint(parts[1], 10, 64); err != nil {
		return "", false
	}
	return strings.ToUpper(parts[0]) + "-" + parts[1], true
}
