package beanio

import (
	"io"

	"github.com/sirupsen/logrus"
)

// logger is the package-level diagnostic logger. It never participates in
// control flow: every write to it is observational tracing of selector and
// context state, for operators debugging a stuck or misbehaving stream.
var logger = logrus.New()

func init() {
	logger.SetOutput(io.Discard)
}

// SetLogOutput redirects the package logger to w. Reader logs a malformed
// record's stream name and line number as structured fields (built by
// traceFields) rather than interpolating them into the message.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLogger replaces the package logger outright, for hosts that want to
// fold beanio's tracing into their own logrus hierarchy.
func SetLogger(l *logrus.Logger) {
	logger = l
}

func traceFields(stream, record string, line int, selector string) logrus.Fields {
	f := logrus.Fields{}
	if stream != "" {
		f["stream"] = stream
	}
	if record != "" {
		f["record"] = record
	}
	if line > 0 {
		f["line"] = line
	}
	if selector != "" {
		f["selector"] = selector
	}
	return f
}
