// Package logger provides the prefixed, colored logger shared by every component.
package logger

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/sirupsen/logrus"
)

const timeLayout = "2006/01/02 15:04:05"

var (
	ErrNilWriter = errors.New("logger writer is nil")

	levelStyles = map[logrus.Level]color.Style{
		logrus.InfoLevel:  {color.FgGreen},
		logrus.WarnLevel:  {color.FgYellow, color.OpBold},
		logrus.ErrorLevel: {color.FgRed, color.OpBold},
	}
)

// Logger writes "time [PREFIX] [LEVEL] message" lines.
type Logger struct {
	logger *logrus.Logger
}

// New creates a Logger whose prefix is rendered in the given color.
func New(prefix string, c color.Color, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&prefixFormatter{tag: c.Sprint("[" + prefix + "]")})

	return &Logger{logger: l}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.logger.Info(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.logger.Warn(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.logger.Error(msg)
}

// prefixFormatter renders an entry as one line behind the colored prefix tag.
type prefixFormatter struct {
	tag string
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := "[" + strings.ToUpper(e.Level.String()) + "]"
	if style, ok := levelStyles[e.Level]; ok {
		level = style.Sprint(level)
	}

	var b bytes.Buffer
	b.WriteString(e.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(f.tag)
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}
