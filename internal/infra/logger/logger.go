package logger

import (
	"io"
	"os"
	"strings"

	"tutorhub/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components take entries from it via Component.
var Log = logrus.New()

// Init configures Log from the application config and writes to stdout.
func Init(cfg *config.AppConfig) {
	Setup(Log, cfg, os.Stdout)
}

// Setup applies level, formatter and default fields to l. Tools whose stdout
// is program output pass os.Stderr.
func Setup(l *logrus.Logger, cfg *config.AppConfig, out io.Writer) {
	l.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.IsProduction() {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
			FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	l.ReplaceHooks(make(logrus.LevelHooks))
	if cfg.IsProduction() {
		l.AddHook(&staticFields{fields: logrus.Fields{"app": cfg.AppName, "env": cfg.Environment}})
	}

	l.Debugf("Log level set to: %s", l.GetLevel().String())
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// staticFields stamps every entry with fields that do not change at runtime.
type staticFields struct {
	fields logrus.Fields
}

func (h *staticFields) Levels() []logrus.Level { return logrus.AllLevels }

func (h *staticFields) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}
