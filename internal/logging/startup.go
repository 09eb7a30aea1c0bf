package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects the binary identity, the models it talks to, its
// feature switches and non-sensitive configuration, then emits a single
// structured event describing how the process was started.
type StartupLogger struct {
	name         string
	version      string
	initDuration time.Duration

	models   map[string]string
	ssm      map[string]string
	features map[string]bool
	config   map[string]string
}

// NewStartupLogger creates a StartupLogger for the given binary name
// (e.g. "studio-web", "studio-lambda").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:     name,
		models:   make(map[string]string),
		ssm:      make(map[string]string),
		features: make(map[string]bool),
		config:   make(map[string]string),
	}
}

// Version sets the build version string.
func (s *StartupLogger) Version(v string) *StartupLogger {
	s.version = v
	return s
}

// Model registers a backend model by role ("plan", "image").
func (s *StartupLogger) Model(role, name string) *StartupLogger {
	s.models[role] = name
	return s
}

// SSMParam registers an SSM parameter path. Only the path is logged, never the value.
func (s *StartupLogger) SSMParam(label, path string) *StartupLogger {
	s.ssm[label] = path
	return s
}

// Feature registers a boolean feature flag (e.g. "credentialAvailable").
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long startup took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// EnvOrDefault returns the value of the named environment variable, or
// defaultVal if the variable is empty or unset.
func EnvOrDefault(envVar, defaultVal string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultVal
}

// Log emits a single structured INFO log event with all collected information.
func (s *StartupLogger) Log() {
	evt := log.Info()

	process := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", levelFromEnv())
	if s.version != "" {
		process = process.Str("version", s.version)
	}
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		process = process.
			Str("functionName", fn).
			Str("region", os.Getenv("AWS_REGION"))
	}
	evt = evt.Dict("process", process)

	if len(s.models) > 0 {
		evt = evt.Dict("models", dictFromMap(s.models))
	}
	if len(s.ssm) > 0 {
		evt = evt.Dict("ssmParams", dictFromMap(s.ssm))
	}
	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}
	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}
	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Startup complete")
}

func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
