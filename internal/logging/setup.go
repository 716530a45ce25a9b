package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogFormat selects the logrus formatter.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// UnmarshalText lets viper and envconfig decode log_format directly.
func (f *LogFormat) UnmarshalText(text []byte) error {
	value := LogFormat(strings.ToLower(string(text)))
	switch value {
	case "":
		*f = FormatText
		return nil
	case FormatText, FormatJSON:
		*f = value
		return nil
	default:
		return fmt.Errorf("invalid log format %q, must be %q or %q", string(text), FormatText, FormatJSON)
	}
}

// Decode implements envconfig.Decoder.
func (f *LogFormat) Decode(value string) error {
	return f.UnmarshalText([]byte(value))
}

// NewLogger configures the global logrus logger and returns it, so that
// dependencies logging through logrus share the format.
func NewLogger(format LogFormat, level string, out io.Writer) (*logrus.Logger, error) {
	if format == FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "_msg",
			},
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors: true,
		})
	}

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		lvl = parsed
	}

	logrus.SetOutput(out)
	logrus.SetLevel(lvl)

	return logrus.StandardLogger(), nil
}
