package telemetry

import (
	"fmt"
	"os"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	log "github.com/sirupsen/logrus"
)

// ConfigureLogger sets level and format of the standard logrus logger
func ConfigureLogger(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	return nil
}

// WatermillLogger adapts a logrus logger to watermill.LoggerAdapter
type WatermillLogger struct {
	entry *log.Entry
}

// NewWatermillLogger creates a watermill logger writing to logger
func NewWatermillLogger(logger *log.Logger) watermill.LoggerAdapter {
	return &WatermillLogger{entry: log.NewEntry(logger)}
}

func (l *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.entry.WithFields(log.Fields(fields)).WithError(err).Error(msg)
}

func (l *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	l.entry.WithFields(log.Fields(fields)).Info(msg)
}

func (l *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.entry.WithFields(log.Fields(fields)).Debug(msg)
}

func (l *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.entry.WithFields(log.Fields(fields)).Trace(msg)
}

func (l *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{entry: l.entry.WithFields(log.Fields(fields))}
}
