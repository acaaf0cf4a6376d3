// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

const (
	LevelError = slog.LevelError
	LevelWarn  = slog.LevelWarn
	LevelInfo  = slog.LevelInfo
	LevelDebug = slog.LevelDebug
)

// Logger is the structured logging surface handed out to packages.
type Logger interface {
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

var root atomic.Pointer[logger]

func init() {
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	SetDefault(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &lvl}))
}

// SetDefault replaces the process-wide handler behind every logger
// previously obtained via WithContext.
func SetDefault(h slog.Handler) {
	root.Store(&logger{inner: slog.New(h)})
}

// WithContext returns a logger carrying the given key/value context.
// The usual call is log.WithContext("pkg", "worklock") at package level.
func WithContext(ctx ...any) Logger {
	return &dynamic{ctx: ctx}
}

// dynamic resolves the root logger at call time so that SetDefault
// applies to package-level loggers created before initialization.
type dynamic struct {
	ctx []any
}

func (d *dynamic) resolve() Logger { return root.Load().With(d.ctx...) }

func (d *dynamic) Debug(msg string, ctx ...any) { d.resolve().Debug(msg, ctx...) }
func (d *dynamic) Info(msg string, ctx ...any)  { d.resolve().Info(msg, ctx...) }
func (d *dynamic) Warn(msg string, ctx ...any)  { d.resolve().Warn(msg, ctx...) }
func (d *dynamic) Error(msg string, ctx ...any) { d.resolve().Error(msg, ctx...) }
func (d *dynamic) With(ctx ...any) Logger {
	return &dynamic{ctx: append(append([]any{}, d.ctx...), ctx...)}
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return discardHandler{}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// NewWriterHandler builds a text handler at the given level, used by the
// command line entry points.
func NewWriterHandler(w io.Writer, level slog.Level) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(level)
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: &lvl})
}
