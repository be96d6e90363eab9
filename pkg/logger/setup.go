package logger

import "os"

// SetupLogger installs the default logger for command-line use. Output goes
// to stderr so command results on stdout stay machine readable.
func SetupLogger(logLevel string, logJSON, logSource bool) error {
	level := LogLevel(logLevel)
	switch level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
	default:
		level = InfoLevel
	}
	return Init(&Config{
		Level:      level,
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
