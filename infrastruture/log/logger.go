package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beka-birhanu/vinom-mines/config"
	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/sirupsen/logrus"
)

// Logger writes leveled, prefixed lines through logrus.
type Logger struct {
	base *logrus.Logger
}

// prefixFormatter renders "[PREFIX] [LEVEL] message" with the prefix and level coloured.
type prefixFormatter struct {
	prefix string
	color  string
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s[%s]%s ", e.Time.Format("2006/01/02 15:04:05"), f.color, f.prefix, config.ColorReset)

	switch e.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		fmt.Fprintf(&b, "%s[ERROR]%s ", config.LogErrorColor, config.LogColorReset)
	case logrus.WarnLevel:
		fmt.Fprintf(&b, "%s[WARNING]%s ", config.LogWarnColor, config.LogColorReset)
	default:
		fmt.Fprintf(&b, "%s[INFO]%s ", config.LogInfoColor, config.LogColorReset)
	}

	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// New creates a logger that tags every line with prefix in the given colour.
func New(prefix, color string, w io.Writer) (i.Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is empty")
	}
	if w == nil {
		return nil, errors.New("logger writer is nil")
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&prefixFormatter{prefix: prefix, color: color})
	return &Logger{base: l}, nil
}

func (l *Logger) Info(msg string) {
	l.base.Info(msg)
}

func (l *Logger) Warning(msg string) {
	l.base.Warn(msg)
}

func (l *Logger) Error(msg string) {
	l.base.Error(msg)
}
