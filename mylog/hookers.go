package mylog

import (
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const logFileName = "walletkeeper.log"

// NewFileRotateHooker writes every entry as JSON into a daily rotated file under path.
func NewFileRotateHooker(path string, age uint32) (logrus.Hook, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	base := filepath.Join(path, logFileName)
	options := []rotatelogs.Option{
		rotatelogs.WithLinkName(base),
		rotatelogs.WithRotationTime(24 * time.Hour),
	}
	if age > 0 {
		options = append(options, rotatelogs.WithMaxAge(time.Duration(age)*24*time.Hour))
	}
	writer, err := rotatelogs.New(base+".%Y%m%d", options...)
	if err != nil {
		return nil, err
	}
	return lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{TimestampFormat: time.RFC3339}), nil
}
