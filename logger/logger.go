// Package logger provides the application-wide logger.
// Logs are discarded until SetOutput is called.
package logger

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var defaultLogger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return l
}

// Reset discards all settings. It is not goroutine safe.
func Reset() {
	defaultLogger = newLogger()
}

func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum level of logged entries. level is one of the
// level names logrus accepts, such as "debug" or "info".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level '%s'", level)
	}
	defaultLogger.SetLevel(lvl)
	return nil
}

func Println(v ...interface{}) {
	defaultLogger.Infoln(v...)
}

func Printf(format string, v ...interface{}) {
	defaultLogger.Infof(format, v...)
}

func Debugf(format string, v ...interface{}) {
	defaultLogger.Debugf(format, v...)
}

// Scriptln calls f and logs the result only if the output is enabled.
// It is useful when building the log entry is expensive.
func Scriptln(f func() []interface{}) {
	if defaultLogger.Out == io.Discard {
		return
	}
	defaultLogger.Infoln(f()...)
}
