package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
)

// SmartSpinner wraps a terminal spinner that prints its outcome to w once stopped.
type SmartSpinner struct {
	spinner *spinner.Spinner
	w       io.Writer
}

func NewSmartSpinner(w io.Writer, initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+initialMessage),
		spinner.WithWriter(w),
	)
	return &SmartSpinner{spinner: s, w: w}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + msg
	s.spinner.Unlock()
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(s.w, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(s.w, msg)
}

func (s *SmartSpinner) Warning(msg string) {
	s.Stop()
	PrintWarning(s.w, msg)
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key)
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "%s %s\n", keyColored, valueColored)
}

// PrintSummary prints the header followed by one line per planned action.
func PrintSummary(w io.Writer, header string, lines []string) {
	_, _ = fmt.Fprintf(w, "\n%s %s\n", RocketEmoji, Accent.Sprint(header))
	for _, line := range lines {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w)
}

// HandleAppError prints err the way users see every failure: type, message,
// the wrapped cause and, when present, a suggestion. If translations is nil
// English defaults are used.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

	details := "Details"
	if t != nil {
		details = t.GetMessage("ui_error.details", 0, nil)
	}
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   %s: %v\n", details, appErr.Err)
	}
	if stderr, ok := appErr.Context["stderr"].(string); ok && stderr != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", strings.TrimSpace(stderr))
	}
	if body, ok := appErr.Context["response_body"].(string); ok && body != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", strings.TrimSpace(body))
	}

	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintln(w)
		tryPrefix := "💡 Try: "
		if t != nil {
			tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
		}
		_, _ = Info.Fprint(w, tryPrefix)
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", strings.TrimLeft(line, " "))
			}
		}
	}
	_, _ = fmt.Fprintln(w)
}
