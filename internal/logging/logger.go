package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger with configuration from environment variables.
// STUDIO_LOG_LEVEL controls the log level: debug, info, warn, error (default: info).
// GEMINI_LOG_LEVEL is honoured when STUDIO_LOG_LEVEL is unset.
//
// Inside Lambda the logger writes plain JSON so CloudWatch can index the fields;
// everywhere else it uses the human-readable console writer on stderr.
func Init() {
	zerolog.SetGlobalLevel(ParseLevel(levelFromEnv()))

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func levelFromEnv() string {
	if level := os.Getenv("STUDIO_LOG_LEVEL"); level != "" {
		return level
	}
	return os.Getenv("GEMINI_LOG_LEVEL")
}
