package chainconf

import (
	"log/slog"
	"os"
	"strings"
)

// LookupFunc resolves an environment variable. It has the semantics of
// os.LookupEnv: ok is false when the variable is not set at all.
type LookupFunc func(key string) (value string, ok bool)

// Value sources, as logged.
const (
	sourceProcess = "environment"
	sourceFile    = "env_file"
	sourceUnset   = "unset"
)

// layeredEnv resolves keys from the process environment first and falls
// back to the values read from the secrets file.
type layeredEnv struct {
	process LookupFunc
	file    map[string]string
	logger  *slog.Logger
}

func newLayeredEnv(process LookupFunc, file map[string]string, logger *slog.Logger) *layeredEnv {
	if process == nil {
		process = os.LookupEnv
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &layeredEnv{process: process, file: file, logger: logger}
}

func (e *layeredEnv) Lookup(key string) (string, bool) {
	if v, ok := e.process(key); ok {
		e.logSource(key, v, sourceProcess)
		return v, true
	}
	if v, ok := e.file[key]; ok {
		e.logSource(key, v, sourceFile)
		return v, true
	}
	e.logger.Debug("environment variable not set",
		slog.String("key", key),
		slog.String("source", sourceUnset),
	)
	return "", false
}

func (e *layeredEnv) logSource(key, value, source string) {
	if isSensitive(key) {
		e.logger.Debug("using environment variable",
			slog.String("key", key),
			slog.String("source", source),
			slog.Bool("sensitive", true),
		)
		return
	}
	e.logger.Debug("using environment variable",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("source", source),
	)
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, marker := range []string{"mnemonic", "key", "secret", "token", "password"} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

// lookupPtr returns a pointer to the variable's value, or nil when unset.
func lookupPtr(lookup LookupFunc, key string) *string {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	return &v
}
