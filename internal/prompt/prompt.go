package prompt

import (
	"context"
	"strings"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

const DefaultMaxAttempts = 3

// BlockTerminator is the line that ends a multi-line answer.
const BlockTerminator = "."

// Validator rejects an answer by returning an error whose message is shown
// to the user before asking again.
type Validator func(string) error

// NotEmpty rejects blank answers.
func NotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return domainErrors.ErrEmptyInput
	}
	return nil
}

type TextSpec struct {
	Message    string
	Validators []Validator
	// Multiline reads until a BlockTerminator line or the end of input
	// instead of a single line.
	Multiline bool
}

type Choice struct {
	Value       string
	Description string
}

// Prompter is the only way the interactive flows talk to the user.
// Closed input is reported as ErrPromptCancelled and running out of
// attempts as ErrValidationExhausted.
type Prompter interface {
	Text(ctx context.Context, spec TextSpec) (string, error)
	Select(ctx context.Context, message, hint string, choices []Choice) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
}
