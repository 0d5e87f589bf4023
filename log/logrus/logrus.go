// Package logruslog bridges taskview's Logger interface to sirupsen/logrus.
package logruslog

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/taskview"
)

type Adapter struct {
	e *logrus.Entry
}

var _ taskview.Logger = Adapter{}

// New wraps a logrus entry. Use logrus.NewEntry(logger) to adapt a bare
// logger; a nil entry falls back to the standard logger.
func New(e *logrus.Entry) Adapter {
	if e == nil {
		e = logrus.NewEntry(logrus.StandardLogger())
	}
	return Adapter{e: e}
}

func (a Adapter) Debug(msg string, f taskview.Fields) { a.e.WithFields(logrus.Fields(f)).Debug(msg) }
func (a Adapter) Info(msg string, f taskview.Fields)  { a.e.WithFields(logrus.Fields(f)).Info(msg) }
func (a Adapter) Warn(msg string, f taskview.Fields)  { a.e.WithFields(logrus.Fields(f)).Warn(msg) }
func (a Adapter) Error(msg string, f taskview.Fields) { a.e.WithFields(logrus.Fields(f)).Error(msg) }
