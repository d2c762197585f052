// Package logging configures the driver's structured logger. Both the
// teacher and the container-runtime example in this pack depend on
// sirupsen/logrus; this package sets it up the conventional way rather
// than inventing a bespoke logging shape.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger whose level tracks the resident
// installer's `-D` debug flag: 0 = Info, 1 = Debug, >=2 = Trace
// (spec.md §4.8 step 1 "debug-level").
func New(debugLevel int) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	switch {
	case debugLevel >= 2:
		log.SetLevel(logrus.TraceLevel)
	case debugLevel == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
