package smartparams

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logMu     sync.RWMutex
	pkgLogger logrus.FieldLogger = discardLogger()
)

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger replaces the package logger. Runs log at Debug level; duplicate
// keys tolerated under Warn strictness log at Warn. nil restores the
// discarding default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = discardLogger()
	}
	logMu.Lock()
	pkgLogger = l
	logMu.Unlock()
}

func logger() logrus.FieldLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return pkgLogger
}
