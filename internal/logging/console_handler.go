package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/hplabs/go-huffpack/internal/color"
)

// ConsoleHandler renders records as single human-readable lines on stderr:
//
//	warning: destination exists path=out.huff
//
// Level prefixes are colored when the terminal supports it. Debug and info
// records carry no prefix; the message is the output.
type ConsoleHandler struct {
	mu     sync.Mutex
	w      io.Writer
	level  slog.Level
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, level slog.Level, color bool) *ConsoleHandler {
	return &ConsoleHandler{w: w, level: level, color: color}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle renders one record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	switch {
	case r.Level >= slog.LevelError:
		b.WriteString(h.colored(color.Red, "error: "))
	case r.Level >= slog.LevelWarn:
		b.WriteString(h.colored(color.Yellow, "warning: "))
	case r.Level < slog.LevelInfo:
		b.WriteString(h.colored(color.Dim, "debug: "))
	}
	b.WriteString(r.Message)

	// Accumulated attrs were qualified when added; only record attrs take
	// the current group prefix.
	for _, attr := range h.attrs {
		h.writeAttr(&b, "", attr)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(&b, prefix, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ConsoleHandler) writeAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s", h.colored(color.Dim, prefix+attr.Key+"="+attr.Value.String()))
}

func (h *ConsoleHandler) colored(c color.Color, s string) string {
	if !h.color {
		return s
	}
	return c(s)
}

func (h *ConsoleHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// WithAttrs returns a handler that adds the attributes to every record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	prefix := h.groupPrefix()
	next.attrs = append([]slog.Attr{}, h.attrs...)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: prefix + attr.Key, Value: attr.Value})
	}
	return next
}

// WithGroup returns a handler qualifying attribute keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	next.groups = append(append([]string{}, h.groups...), name)
	return next
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		w:      h.w,
		level:  h.level,
		color:  h.color,
		attrs:  h.attrs,
		groups: h.groups,
	}
}
