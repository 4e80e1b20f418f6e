// Package chainconf builds the network, explorer and compiler configuration
// used to develop and deploy contracts on the Avalanche C-Chain.
package chainconf

// Network names
const (
	NetworkLocal   = "hardhat"
	NetworkMainnet = "mainnet"
)

// Chain identifiers
const (
	ChainIDLocal     uint64 = 31337
	ChainIDAvalanche uint64 = 43114
	ChainIDFuji      uint64 = 43113
)

// Network constants
const (
	AvalancheRPCURL        = "https://api.avax.network/ext/bc/C/rpc"
	DefaultGasPrice uint64 = 225000000000 // 225 gwei
)

// Compiler constants
const (
	SolidityVersion = "0.8.9"
	OptimizerRuns   = 200
)

// Environment variable names
const (
	EnvUseLocalTestnet = "USE_LOCAL_TESTNET"
	EnvMnemonic        = "MNEMONIC"
	EnvSnowtraceAPIKey = "SNOWTRACE_API_KEY"
)

// DefaultEnvFile is the secrets file that must exist before a Config is built.
const DefaultEnvFile = ".env"

// Config is the full toolchain configuration.
type Config struct {
	Networks  map[string]*NetworkConfig `json:"networks" yaml:"networks"`
	Etherscan EtherscanConfig           `json:"etherscan" yaml:"etherscan"`
	Solidity  SolidityConfig            `json:"solidity" yaml:"solidity"`
}

// NetworkConfig holds connection parameters for a named network.
type NetworkConfig struct {
	URL      string          `json:"url,omitempty" yaml:"url,omitempty"`
	ChainID  uint64          `json:"chainId" yaml:"chainId"`
	GasPrice uint64          `json:"gasPrice" yaml:"gasPrice"`
	Forking  *ForkingConfig  `json:"forking,omitempty" yaml:"forking,omitempty"`
	Accounts *AccountsConfig `json:"accounts,omitempty" yaml:"accounts,omitempty"`
}

// ForkingConfig points a local network at a remote chain to mirror.
type ForkingConfig struct {
	URL string `json:"url" yaml:"url"`
}

// AccountsConfig holds the HD account source of a network.
// A nil Mnemonic means the variable was not set.
type AccountsConfig struct {
	Mnemonic *string `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
}

// EtherscanConfig holds block-explorer verification credentials.
type EtherscanConfig struct {
	APIKey *string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
}

// SolidityConfig selects the compiler and its settings.
type SolidityConfig struct {
	Version  string           `json:"version" yaml:"version"`
	Settings CompilerSettings `json:"settings" yaml:"settings"`
}

// CompilerSettings are passed to solc as-is.
type CompilerSettings struct {
	Optimizer OptimizerConfig `json:"optimizer" yaml:"optimizer"`
}

// OptimizerConfig configures the bytecode optimizer.
type OptimizerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Runs    int  `json:"runs" yaml:"runs"`
}
