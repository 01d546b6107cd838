package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler writes one colored line per record: level badge, message,
// key=value attributes and, when AddSource is set, file:line.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(badge(r.Level))
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, formatAttr("", a))
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, formatAttr(prefix, a))
		return true
	})
	if len(attrs) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(attrs, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	// bound attributes keep the groups that were open when they were added
	prefixed := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a.Key = strings.Join(h.groups, ".") + "." + a.Key
		}
		prefixed = append(prefixed, a)
	}

	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), prefixed...)
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func badge(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString("[ERROR]")
	case level >= slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case level >= slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case level >= slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func formatAttr(prefix string, a slog.Attr) string {
	key := prefix + a.Key
	val := a.Value.Resolve().String()
	if strings.ContainsAny(val, " \t\n") {
		val = fmt.Sprintf("%q", val)
	}

	switch a.Key {
	case "error", "err", "stderr":
		return color.RedString("%s=%s", key, val)
	case "duration", "elapsed":
		return color.MagentaString("%s=%s", key, val)
	case "branch", "url", "pr_number", "repo":
		return color.GreenString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}
