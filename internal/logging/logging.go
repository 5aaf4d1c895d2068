// Package logging configures the process-wide phuslu logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Setup installs the default logger. format "json" writes one JSON object
// per line; anything else writes human-readable console output.
func Setup(level, format string) {
	log.DefaultLogger = New(os.Stderr, level, format)
}

func New(w io.Writer, level, format string) log.Logger {
	lvl := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if strings.TrimSpace(level) == "" {
		lvl = log.InfoLevel
	}

	if strings.EqualFold(format, "json") {
		return log.Logger{Level: lvl, Writer: &log.IOWriter{Writer: w}}
	}

	return log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    w == os.Stderr || w == os.Stdout,
			EndWithMessage: true,
		},
	}
}
