// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup applies level and format to the standard logrus logger and
// returns it. Production uses JSON lines; everything else uses the text
// formatter with full timestamps.
func Setup(level string, production bool) *logrus.Logger {
	l := logrus.StandardLogger()
	l.SetOutput(os.Stdout)
	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
