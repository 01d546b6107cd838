package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeValidation    ErrorType = "VALIDATION"
	TypeCancelled     ErrorType = "CANCELLED"
	TypeProcess       ErrorType = "PROCESS"
	TypeNotFound      ErrorType = "NOT_FOUND"
	TypeAPI           ErrorType = "API"
	TypeIO            ErrorType = "IO"
	TypeTimeout       ErrorType = "TIMEOUT"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeUpdate        ErrorType = "UPDATE"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
		if body, ok := e.Context["response_body"].(string); ok && body != "" {
			msg += fmt.Sprintf(" - %s", body)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on type and message so sentinels keep matching after
// WithContext/WithError produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// Validation errors
var (
	ErrEmptyInput = NewAppError(TypeValidation, "You must enter a value", nil)

	ErrInvalidChoice = NewAppError(TypeValidation, "Invalid selection", nil).
				WithSuggestion("Enter the number or the name of one of the listed options")

	ErrValidationExhausted = NewAppError(TypeValidation, "Too many invalid answers", nil).
				WithSuggestion("Run the command again and answer every question")

	ErrUnknownCommitType = NewAppError(TypeValidation, "Unknown commit type", nil).
				WithSuggestion("Use one of: feat, fix, change, refactor, chore, test, docs, ci, remove, perf, revert")
)

// Prompt errors
var (
	ErrPromptCancelled = NewAppError(TypeCancelled, "Input cancelled", nil)
)

// Git errors
var (
	ErrCreateBranch = NewAppError(TypeProcess, "Failed to create branch", nil).
			WithSuggestion("Check that the branch does not already exist: git branch --list")

	ErrCreateCommit = NewAppError(TypeProcess, "Failed to create commit", nil).
			WithSuggestion("Ensure git user is configured:\n   git config --global user.name \"Your Name\"\n   git config --global user.email \"your@email.com\"")

	ErrPush = NewAppError(TypeProcess, "Failed to push to remote", nil).
		WithSuggestion("Verify remote is configured: git remote -v")

	ErrRemoteShow = NewAppError(TypeProcess, "Failed to query the origin remote", nil).
			WithSuggestion("Check your remote connection: git remote show origin")

	ErrRunCommand = NewAppError(TypeProcess, "Failed to run external command", nil)

	ErrRepoNotFound = NewAppError(TypeNotFound, "Could not find the repository", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrUnsupportedRemote = NewAppError(TypeNotFound, "Unsupported repo URL format", nil).
				WithSuggestion("Use https://github.com/OWNER/REPO.git or git@github.com:OWNER/REPO.git")

	ErrDefaultBranchNotFound = NewAppError(TypeNotFound, "Could not find the default branch", nil).
					WithSuggestion("Set the remote HEAD: git remote set-head origin --auto")
)

// GitHub errors
var (
	ErrCreatePR = NewAppError(TypeAPI, "Failed to create pull request", nil).
			WithSuggestion("Check your GitHub token has 'repo' permissions")

	ErrGetUser = NewAppError(TypeAPI, "Failed to get the authenticated user", nil).
			WithSuggestion("Generate a new token at: https://github.com/settings/tokens\nThen run: ghl config")

	ErrAssign = NewAppError(TypeAPI, "Failed to assign the pull request", nil)

	ErrInvalidPRURL = NewAppError(TypeAPI, "Pull request URL does not end with a number", nil)

	ErrLatestRelease = NewAppError(TypeAPI, "Failed to get the latest release", nil).
				WithSuggestion("Check your network connection")

	ErrRequestTimeout = NewAppError(TypeTimeout, "Request timed out", nil).
				WithSuggestion("Raise request_timeout_seconds in ~/.ghl/config.json")
)

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Please set the token with `ghl config`.")

	ErrInvalidSettings = NewAppError(TypeConfiguration, "Invalid settings", nil)

	ErrReadCredentials = NewAppError(TypeIO, "Failed to read credentials", nil).
				WithSuggestion("Check the permissions of ~/.ghl")

	ErrWriteCredentials = NewAppError(TypeIO, "Failed to write credentials", nil).
				WithSuggestion("Check the permissions of ~/.ghl")

	ErrCredentialsLocked = NewAppError(TypeIO, "Credentials are being written by another ghl process", nil).
				WithSuggestion("Wait for the other process to finish and try again")
)

// Update errors
var (
	ErrUpdateFailed = NewAppError(TypeUpdate, "Failed to update application", nil).
		WithSuggestion("Try manual update from: https://github.com/thomas-vilte/ghl/releases")
)
