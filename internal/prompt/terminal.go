package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
	"github.com/thomas-vilte/ghl/internal/logger"
)

var (
	question = color.New(color.FgCyan, color.Bold)
	invalid  = color.New(color.FgYellow)
	dim      = color.New(color.FgHiBlack)
)

// Terminal reads answers line by line from an input stream.
type Terminal struct {
	reader      *bufio.Reader
	out         io.Writer
	t           *i18n.Translations
	maxAttempts int
}

type TerminalOption func(*Terminal)

func WithMaxAttempts(n int) TerminalOption {
	return func(t *Terminal) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

func WithTranslations(trans *i18n.Translations) TerminalOption {
	return func(t *Terminal) {
		t.t = trans
	}
}

func NewTerminal(in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		reader:      bufio.NewReader(in),
		out:         out,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) Text(ctx context.Context, spec TextSpec) (string, error) {
	read := t.readLine
	if spec.Multiline {
		read = t.readBlock
	}
	return t.ask(ctx, spec.Message, read, func(answer string) (string, error) {
		for _, validate := range spec.Validators {
			if err := validate(answer); err != nil {
				return "", err
			}
		}
		return answer, nil
	})
}

// Select lists the choices numbered from 1 and accepts either the number or
// the value itself, case insensitive.
func (t *Terminal) Select(ctx context.Context, message, hint string, choices []Choice) (string, error) {
	_, _ = fmt.Fprintln(t.out, question.Sprint(message))
	width := 0
	for _, c := range choices {
		width = max(width, len(c.Value))
	}
	for i, c := range choices {
		_, _ = fmt.Fprintf(t.out, "  %2d) %-*s  %s\n", i+1, width, c.Value, dim.Sprint(c.Description))
	}

	return t.ask(ctx, hint, t.readLine, func(answer string) (string, error) {
		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 1 && n <= len(choices) {
				return choices[n-1].Value, nil
			}
			return "", domainErrors.ErrInvalidChoice
		}
		for _, c := range choices {
			if strings.EqualFold(c.Value, answer) {
				return c.Value, nil
			}
		}
		return "", domainErrors.ErrInvalidChoice
	})
}

// Confirm returns true only for an explicit yes. Anything else, including an
// empty answer, is a no.
func (t *Terminal) Confirm(ctx context.Context, message string) (bool, error) {
	_, _ = fmt.Fprintf(t.out, "%s (y/n): ", question.Sprint(message))
	answer, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}

func (t *Terminal) ask(ctx context.Context, message string, read func(context.Context) (string, error), accept func(string) (string, error)) (string, error) {
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		_, _ = fmt.Fprintf(t.out, "%s ", question.Sprint(message))
		answer, err := read(ctx)
		if err != nil {
			return "", err
		}

		value, err := accept(answer)
		if err == nil {
			return value, nil
		}

		logger.Debug(ctx, "answer rejected", "attempt", attempt, "error", err)
		_, _ = fmt.Fprintln(t.out, invalid.Sprint(t.invalidMessage(err)))
	}
	return "", domainErrors.ErrValidationExhausted.WithContext("attempts", t.maxAttempts)
}

func (t *Terminal) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domainErrors.ErrPromptCancelled.WithError(err)
	}
	line, err := t.reader.ReadString('\n')
	if err != nil {
		// a last line without newline is still an answer
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(t.out)
			return "", domainErrors.ErrPromptCancelled
		}
		return "", domainErrors.ErrPromptCancelled.WithError(err)
	}
	return strings.TrimSpace(line), nil
}

// readBlock joins lines until one holding only BlockTerminator or the end of
// input. Lines keep their indentation; a blank first line is an empty answer.
func (t *Terminal) readBlock(ctx context.Context) (string, error) {
	var lines []string
	for {
		if err := ctx.Err(); err != nil {
			return "", domainErrors.ErrPromptCancelled.WithError(err)
		}
		raw, err := t.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", domainErrors.ErrPromptCancelled.WithError(err)
		}
		eof := err != nil
		if eof && raw == "" {
			if len(lines) == 0 {
				_, _ = fmt.Fprintln(t.out)
				return "", domainErrors.ErrPromptCancelled
			}
			break
		}

		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) == BlockTerminator {
			break
		}
		if len(lines) == 0 && strings.TrimSpace(line) == "" {
			return "", nil
		}
		lines = append(lines, line)
		if eof {
			break
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n"), nil
}

func (t *Terminal) invalidMessage(err error) string {
	reason := err.Error()
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		reason = appErr.Message
	}
	if t.t == nil {
		return reason + ". Try again."
	}
	return t.t.GetMessage("prompt.invalid", 0, map[string]interface{}{"Reason": reason})
}
