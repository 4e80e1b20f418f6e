package chainconf

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrEnvFileMissing = errors.New("chainconf: .env file doesn't exist")
	ErrEnvFileInvalid = errors.New("chainconf: .env file is invalid")

	ErrUnknownNetwork = errors.New("chainconf: unknown network")

	ErrMissingMnemonic  = errors.New("chainconf: accounts mnemonic is not set")
	ErrMissingAPIKey    = errors.New("chainconf: explorer API key is not set")
	ErrInvalidOptimizer = errors.New("chainconf: optimizer runs must be positive when enabled")
)

// ValidationError reports a lint failure on one section of the Config.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
