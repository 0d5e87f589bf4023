//go:build go1.21

// Package sloglog bridges taskview's Logger interface to log/slog.
package sloglog

import (
	"context"
	stdslog "log/slog"

	"github.com/unkn0wn-root/taskview"
)

type Adapter struct {
	l *stdslog.Logger
}

var _ taskview.Logger = Adapter{}

// New wraps a slog logger. A nil logger falls back to slog.Default.
func New(l *stdslog.Logger) Adapter {
	if l == nil {
		l = stdslog.Default()
	}
	return Adapter{l: l}
}

func (a Adapter) Debug(msg string, f taskview.Fields) { a.log(stdslog.LevelDebug, msg, f) }
func (a Adapter) Info(msg string, f taskview.Fields)  { a.log(stdslog.LevelInfo, msg, f) }
func (a Adapter) Warn(msg string, f taskview.Fields)  { a.log(stdslog.LevelWarn, msg, f) }
func (a Adapter) Error(msg string, f taskview.Fields) { a.log(stdslog.LevelError, msg, f) }

func (a Adapter) log(level stdslog.Level, msg string, f taskview.Fields) {
	attrs := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		attrs = append(attrs, stdslog.Any(k, v))
	}
	a.l.LogAttrs(context.Background(), level, msg, attrs...)
}
