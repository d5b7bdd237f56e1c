package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, debug bool, format string) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	formatter := log.TextFormatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// Logger builds the process logger. Logs go to stderr so command output
// on stdout stays machine readable.
func (g *Globals) Logger() *log.Logger {
	return newLogger(os.Stderr, g.Debug, g.LogFormat)
}
