package prconfig

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/prompt"
)

func init() {
	color.NoColor = true
}

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func TestBuilder_Build(t *testing.T) {
	t.Run("collects slug, type, scope and name", func(t *testing.T) {
		p := &prompt.MockPrompter{}
		p.On("Text", mock.Anything, "Linear branch name:").Return("eng-123-login", nil)
		p.On("Select", mock.Anything, "Commit type:", mock.MatchedBy(func(c []prompt.Choice) bool {
			return len(c) == 11 && c[0].Value == "feat" && c[0].Description == "A new feature"
		})).Return("feat", nil)
		p.On("Text", mock.Anything, "Scope (optional):").Return("auth", nil)
		p.On("Text", mock.Anything, "Commit name:").Return("add login", nil)

		cfg, err := NewBuilder(p, newTranslations(t)).Build(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "feat/eng-123-login", cfg.Branch)
		assert.Equal(t, "feat(auth): add login [ENG-123]", cfg.PRName)
		assert.Equal(t, Feat, cfg.CommitType)
		p.AssertExpectations(t)
	})

	t.Run("stops at the first prompt error", func(t *testing.T) {
		p := &prompt.MockPrompter{}
		p.On("Text", mock.Anything, "Linear branch name:").Return("", domainErrors.ErrPromptCancelled)

		_, err := NewBuilder(p, newTranslations(t)).Build(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrPromptCancelled)
		p.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a type outside the enumeration", func(t *testing.T) {
		p := &prompt.MockPrompter{}
		p.On("Text", mock.Anything, "Linear branch name:").Return("eng-1", nil)
		p.On("Select", mock.Anything, "Commit type:", mock.Anything).Return("feature", nil)

		_, err := NewBuilder(p, newTranslations(t)).Build(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrUnknownCommitType)
	})

	t.Run("through a terminal with re-prompts", func(t *testing.T) {
		input := strings.Join([]string{
			"",            // empty slug, asked again
			"ops-9-cache", // slug
			"12",          // out of range
			"2",           // fix
			"   ",         // blank scope
			"",            // empty name, asked again
			"evict stale keys",
		}, "\n") + "\n"
		var out bytes.Buffer
		term := prompt.NewTerminal(strings.NewReader(input), &out)

		cfg, err := NewBuilder(term, newTranslations(t)).Build(context.Background())

		require.NoError(t, err)
		assert.Equal(t, Config{PRName: "fix: evict stale keys [OPS-9]", Branch: "fix/ops-9-cache", CommitType: Fix}, cfg)
		assert.Contains(t, out.String(), "Invalid selection. Try again.")
		assert.Equal(t, 2, strings.Count(out.String(), "You must enter a value. Try again."))
	})
}

func TestBuilder_Summary(t *testing.T) {
	cfg := Config{PRName: "feat: x [ENG-1]", Branch: "feat/eng-1-x", CommitType: Feat}

	t.Run("draft pull request", func(t *testing.T) {
		b := NewBuilder(&prompt.MockPrompter{}, newTranslations(t))

		header, lines := b.Summary(cfg, true)

		assert.Equal(t, "This will:", header)
		assert.Equal(t, []string{
			"- Create a branch called feat/eng-1-x",
			"- Create an empty commit",
			"- Push",
			"- Create a draft PR named feat: x [ENG-1]",
			"- Assign you to the PR",
		}, lines)
	})

	t.Run("ready for review pull request", func(t *testing.T) {
		b := NewBuilder(&prompt.MockPrompter{}, newTranslations(t))

		_, lines := b.Summary(cfg, false)

		require.Len(t, lines, 5)
		assert.Equal(t, "- Create a PR named feat: x [ENG-1]", lines[3])
		assert.NotContains(t, strings.Join(lines, "\n"), "draft")
	})
}

func TestBuilder_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		answer   bool
		err      error
		expected bool
		wantErr  bool
	}{
		{name: "yes", answer: true, expected: true},
		{name: "no", answer: false, expected: false},
		{name: "cancelled counts as no", err: domainErrors.ErrPromptCancelled, expected: false},
		{name: "other errors surface", err: domainErrors.ErrValidationExhausted, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &prompt.MockPrompter{}
			p.On("Confirm", mock.Anything, "Confirm?").Return(tt.answer, tt.err)

			ok, err := NewBuilder(p, newTranslations(t)).Confirm(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}
