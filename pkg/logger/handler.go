package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Handler is a slog.Handler that writes colored single-line records.
type Handler struct {
	groups []string
	attrs  []slog.Attr
	opts   Options

	mu  *sync.Mutex
	out io.Writer
}

// NewHandler creates a new Handler with the specified options. If opts is nil, uses [DefaultOptions].
func NewHandler(out io.Writer, opts *Options) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}, opts: *DefaultOptions}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.MsgColor == nil {
		h.opts.MsgColor = color.New()
	}
	return h
}

func (h *Handler) clone() *Handler {
	return &Handler{
		groups: h.groups,
		attrs:  h.attrs,
		opts:   h.opts,
		mu:     h.mu,
		out:    h.out,
	}
}

// Enabled implements slog.Handler.Enabled .
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.Handle .
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	bf := bufPool.Get().(*bytes.Buffer)
	bf.Reset()
	defer bufPool.Put(bf)

	if !r.Time.IsZero() {
		bf.WriteString(color.New(color.Faint).Sprint(r.Time.Format(h.opts.TimeFormat)))
		bf.WriteByte(' ')
	}

	if requestID, ok := RequestIDFromContext(ctx); ok {
		bf.WriteString(color.New(color.FgMagenta).Sprintf("%d ", requestID))
	}

	bf.WriteString(levelLabel(r.Level))
	bf.WriteByte(' ')

	if src := h.source(r.PC); src != "" {
		bf.WriteString(src)
		bf.WriteByte(' ')
	}

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs()+1)
	if userID, ok := UserIDFromContext(ctx); ok {
		attrs = append(attrs, slog.Int64("user_id", userID))
	}
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	bf.WriteString(h.opts.MsgPrefix)
	bf.WriteString(h.opts.MsgColor.Sprint(h.message(r.Message, len(attrs) > 0)))

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}
		c := color.New(color.FgCyan)
		if strings.Contains(a.Key, "err") {
			c = color.New(color.FgRed)
		}
		bf.WriteByte(' ')
		bf.WriteString(c.Sprintf("%s%s=", prefix, a.Key))
		bf.WriteString(a.Value.String())
	}
	bf.WriteByte('\n')

	if h.opts.NoColor {
		cleaned := ansi.ReplaceAll(bf.Bytes(), nil)
		bf.Reset()
		bf.Write(cleaned)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(bf.Bytes())
	return err
}

// WithGroup implements slog.Handler.WithGroup .
func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := h.clone()
	h2.groups = append(append([]string{}, h.groups...), name)
	return h2
}

// WithAttrs implements slog.Handler.WithAttrs .
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return h2
}

func (h *Handler) source(pc uintptr) string {
	if h.opts.SrcFileMode == Nop || pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	filename := f.File
	if h.opts.SrcFileMode == ShortFile {
		filename = filepath.Base(filename)
	}
	line := fmt.Sprintf(":%d", f.Line)
	if h.opts.SrcFileLength <= 0 {
		return filename + line
	}
	if max := h.opts.SrcFileLength - len(line) - 1; len(filename) > max && max > 0 {
		filename = filename[:max]
	}
	return fmt.Sprintf("%-*s", h.opts.SrcFileLength, filename+line)
}

func (h *Handler) message(msg string, hasAttrs bool) string {
	if h.opts.MsgLength <= 0 || !hasAttrs {
		return msg
	}
	if len(msg) > h.opts.MsgLength {
		return msg[:h.opts.MsgLength-1] + "…"
	}
	return fmt.Sprintf("%-*s", h.opts.MsgLength, msg)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.New(color.BgRed, color.FgHiWhite).Sprint("ERROR")
	case level >= slog.LevelWarn:
		return color.New(color.BgYellow, color.FgHiWhite).Sprint("WARN ")
	case level >= slog.LevelInfo:
		return color.New(color.BgGreen, color.FgHiWhite).Sprint("INFO ")
	}
	return color.New(color.BgCyan, color.FgHiWhite).Sprint("DEBUG")
}

var bufPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// ansi matches ANSI color escape sequences.
var ansi = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")
