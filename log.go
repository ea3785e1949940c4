package panelkit

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// logger records widget lifecycle transitions for debugging. A TUI cannot
// write diagnostics to the terminal it draws on, so the default sink is
// io.Discard; set PANELKIT_DEBUG to a file path to capture a session.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	if path := os.Getenv("PANELKIT_DEBUG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			l.SetOutput(f)
			l.SetLevel(logrus.DebugLevel)
		}
	}
	return l
}

// SetLogOutput redirects lifecycle logging, for embedders that already
// have a log file open.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
	logger.SetLevel(logrus.DebugLevel)
}
