package mylog

import (
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
)

// const
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
)

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Init loggers.
// path is the directory of rotated log files, an empty path disables the file hook.
// age is the retention in days, 0 keeps every file.
func Init(path string, level string, age uint32) *logrus.Logger {
	clog := logrus.New()
	if path != "" {
		if hook, err := NewFileRotateHooker(path, age); err == nil {
			clog.Hooks.Add(hook)
		} else {
			clog.WithError(err).Warn("file logging disabled")
		}
	}
	clog.Out = os.Stdout
	clog.Formatter = &logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	}
	clog.Level = convertLevel(level)

	return clog
}

// Discard returns a logger that drops everything, for tests and embedders without logging.
func Discard() *logrus.Logger {
	clog := logrus.New()
	clog.Out = ioutil.Discard
	clog.Level = logrus.PanicLevel
	return clog
}
