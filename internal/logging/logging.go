// Package logging configures the console logger for a run.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formatter renders plain messages at the default level; verbose runs get a
// level prefix so debug output is attributable.
type Formatter struct {
	Verbose bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	if !f.Verbose {
		return []byte(e.Message + "\n"), nil
	}
	return []byte(fmt.Sprintf("%-8s - %s\n", strings.ToUpper(e.Level.String()), e.Message)), nil
}

// New returns a logger for the given flags. The tool's stdout is its UI, so
// everything goes there. Quiet raises the level to errors only; error
// reporting is never suppressed.
func New(verbose, quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&Formatter{Verbose: verbose})
	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
