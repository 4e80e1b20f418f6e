package chainconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

type loadOptions struct {
	envFile string
	lookup  LookupFunc
	logger  *slog.Logger
}

// Option configures Load.
type Option func(*loadOptions)

// WithEnvFile overrides the secrets file path (default ".env").
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		if path != "" {
			o.envFile = path
		}
	}
}

// WithLookup replaces the process environment as the primary source.
func WithLookup(fn LookupFunc) Option {
	return func(o *loadOptions) {
		o.lookup = fn
	}
}

// WithLogger sets the logger used to report where values came from.
// A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load checks that the secrets file exists, reads it, and builds the Config.
// Values already present in the process environment win over the file.
// A missing secrets file is fatal: nothing else is evaluated.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{
		envFile: DefaultEnvFile,
		lookup:  os.LookupEnv,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(o.envFile); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvFileMissing, o.envFile)
	}

	fileEnv, err := godotenv.Read(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEnvFileInvalid, o.envFile, err)
	}
	o.logger.Debug("loaded env file",
		slog.String("path", o.envFile),
		slog.Int("entries", len(fileEnv)),
	)

	env := newLayeredEnv(o.lookup, fileEnv, o.logger)
	return Build(env.Lookup), nil
}

// Build constructs the Config from an environment lookup. It performs no
// validation; unset variables are carried as nil.
func Build(lookup LookupFunc) *Config {
	return &Config{
		Networks: map[string]*NetworkConfig{
			NetworkLocal:   localNetwork(lookup),
			NetworkMainnet: mainnetNetwork(lookup),
		},
		Etherscan: EtherscanConfig{
			APIKey: lookupPtr(lookup, EnvSnowtraceAPIKey),
		},
		Solidity: SolidityConfig{
			Version: SolidityVersion,
			Settings: CompilerSettings{
				Optimizer: OptimizerConfig{
					Enabled: true,
					Runs:    OptimizerRuns,
				},
			},
		},
	}
}

func localNetwork(lookup LookupFunc) *NetworkConfig {
	n := &NetworkConfig{
		ChainID:  ChainIDLocal,
		GasPrice: DefaultGasPrice,
	}
	if v, _ := lookup(EnvUseLocalTestnet); v == "1" {
		n.Forking = &ForkingConfig{URL: AvalancheRPCURL}
	}
	return n
}

func mainnetNetwork(lookup LookupFunc) *NetworkConfig {
	return &NetworkConfig{
		URL:      AvalancheRPCURL,
		ChainID:  ChainIDAvalanche,
		GasPrice: DefaultGasPrice,
		Accounts: &AccountsConfig{
			Mnemonic: lookupPtr(lookup, EnvMnemonic),
		},
	}
}

// Network returns the named network.
func (c *Config) Network(name string) (*NetworkConfig, error) {
	n, ok := c.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return n, nil
}

// NetworkNames returns the declared network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate lints the Config. Load never calls it; missing values are only
// reported when a caller asks.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.NetworkNames() {
		n := c.Networks[name]
		if n.URL == "" {
			continue
		}
		if n.Accounts == nil || n.Accounts.Mnemonic == nil || *n.Accounts.Mnemonic == "" {
			errs = append(errs, &ValidationError{
				Field: "networks." + name + ".accounts.mnemonic",
				Err:   ErrMissingMnemonic,
			})
		}
	}
	if c.Etherscan.APIKey == nil || *c.Etherscan.APIKey == "" {
		errs = append(errs, &ValidationError{Field: "etherscan.apiKey", Err: ErrMissingAPIKey})
	}
	if opt := c.Solidity.Settings.Optimizer; opt.Enabled && opt.Runs <= 0 {
		errs = append(errs, &ValidationError{Field: "solidity.settings.optimizer.runs", Err: ErrInvalidOptimizer})
	}
	return errors.Join(errs...)
}

// Redacted returns a deep copy with secrets masked.
func (c *Config) Redacted() *Config {
	out := &Config{
		Networks:  make(map[string]*NetworkConfig, len(c.Networks)),
		Etherscan: EtherscanConfig{APIKey: maskPtr(c.Etherscan.APIKey, MaskSecret)},
		Solidity:  c.Solidity,
	}
	for name, n := range c.Networks {
		cp := *n
		if n.Forking != nil {
			f := *n.Forking
			cp.Forking = &f
		}
		if n.Accounts != nil {
			cp.Accounts = &AccountsConfig{Mnemonic: maskPtr(n.Accounts.Mnemonic, MaskMnemonic)}
		}
		out.Networks[name] = &cp
	}
	return out
}

func maskPtr(s *string, mask func(string) string) *string {
	if s == nil {
		return nil
	}
	m := mask(*s)
	return &m
}

// MaskSecret hides all but the edges of a secret for display.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MaskMnemonic hides a seed phrase entirely, keeping only its word count.
// BIP-39 words are unique in their first four letters, so no part of a
// word may be shown.
func MaskMnemonic(s string) string {
	words := len(strings.Fields(s))
	if words == 0 {
		return ""
	}
	return fmt.Sprintf("<%d words>", words)
}
