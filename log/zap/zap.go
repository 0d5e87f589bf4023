// Package zaplog bridges taskview's Logger interface to go.uber.org/zap.
package zaplog

import (
	"github.com/unkn0wn-root/taskview"
	"go.uber.org/zap"
)

type Adapter struct {
	l *zap.Logger
}

var _ taskview.Logger = Adapter{}

// New wraps a zap logger. A nil logger falls back to zap.NewNop.
func New(l *zap.Logger) Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	return Adapter{l: l}
}

func (a Adapter) Debug(msg string, f taskview.Fields) { a.l.Debug(msg, fields(f)...) }
func (a Adapter) Info(msg string, f taskview.Fields)  { a.l.Info(msg, fields(f)...) }
func (a Adapter) Warn(msg string, f taskview.Fields)  { a.l.Warn(msg, fields(f)...) }
func (a Adapter) Error(msg string, f taskview.Fields) { a.l.Error(msg, fields(f)...) }

func fields(f taskview.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
