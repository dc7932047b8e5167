package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
)

// PrettyHandler renders records as "15:04:05.000 INF message key=value" with
// ANSI colors, one line per record. Meant for a human watching stderr.
type PrettyHandler struct {
	level  slog.Level
	prefix string
	attrs  []slog.Attr

	mu sync.Mutex
	w  io.Writer
}

func NewPrettyHandler(w io.Writer, level slog.Level) *PrettyHandler {
	return &PrettyHandler{level: level, w: w}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(ansiDim)
	b.WriteString(r.Time.Format("15:04:05.000"))
	b.WriteString(ansiReset)
	b.WriteByte(' ')

	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs bakes the current group prefix into the stored keys so that
// groups opened later do not retroactively rename earlier attrs.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		if c.prefix != "" {
			a.Key = c.prefix + "." + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return c
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	if c.prefix != "" {
		c.prefix += "."
	}
	c.prefix += name
	return c
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		level:  h.level,
		prefix: h.prefix,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		w:      h.w,
	}
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed + "ERR" + ansiReset
	case level >= slog.LevelWarn:
		return ansiYellow + "WRN" + ansiReset
	case level >= slog.LevelInfo:
		return ansiGreen + "INF" + ansiReset
	default:
		return ansiDim + "DBG" + ansiReset
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		p := a.Key
		if prefix != "" {
			p = prefix + "." + p
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, p, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(ansiCyan)
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(attrValue(a.Value))
	b.WriteString(ansiReset)
}

func attrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprint(v.Any())
	}
}
