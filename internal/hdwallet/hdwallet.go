// Package hdwallet derives Ethereum accounts from a BIP-39 mnemonic the same
// way the contract toolchain does for mnemonic-configured networks.
package hdwallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Defaults used by the toolchain for mnemonic accounts.
const (
	DefaultPath         = "m/44'/60'/0'/0"
	DefaultInitialIndex = 0
	DefaultCount        = 20
	MaxCount            = 1000
)

var (
	ErrInvalidMnemonic = errors.New("hdwallet: invalid mnemonic")
	ErrInvalidPath     = errors.New("hdwallet: invalid derivation path")
	ErrInvalidCount    = errors.New("hdwallet: invalid account count")
)

// Account is one derived signing account.
type Account struct {
	Index   int            `json:"index" yaml:"index"`
	Path    string         `json:"path" yaml:"path"`
	Address common.Address `json:"address" yaml:"address"`
}

type options struct {
	path         string
	initialIndex int
	count        int
	passphrase   string
}

// Option configures Derive.
type Option func(*options)

// WithPath sets the parent path; the account index is appended to it.
func WithPath(path string) Option {
	return func(o *options) { o.path = strings.TrimSuffix(path, "/") }
}

// WithInitialIndex sets the first account index.
func WithInitialIndex(i int) Option {
	return func(o *options) { o.initialIndex = i }
}

// WithCount sets how many accounts to derive.
func WithCount(n int) Option {
	return func(o *options) { o.count = n }
}

// WithPassphrase sets the BIP-39 passphrase.
func WithPassphrase(p string) Option {
	return func(o *options) { o.passphrase = p }
}

// Derive returns the accounts for mnemonic.
func Derive(mnemonic string, opts ...Option) ([]Account, error) {
	o := options{
		path:         DefaultPath,
		initialIndex: DefaultInitialIndex,
		count:        DefaultCount,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.count <= 0 || o.count > MaxCount {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCount, o.count, MaxCount)
	}
	if o.initialIndex < 0 {
		return nil, fmt.Errorf("%w: negative initial index %d", ErrInvalidPath, o.initialIndex)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if _, err := hd.NewParamsFromPath(fmt.Sprintf("%s/%d", o.path, o.initialIndex)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	derive := hd.Secp256k1.Derive()
	accounts := make([]Account, 0, o.count)
	for i := o.initialIndex; i < o.initialIndex+o.count; i++ {
		path := fmt.Sprintf("%s/%d", o.path, i)
		priv, err := derive(mnemonic, o.passphrase, path)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", path, err)
		}
		key, err := crypto.ToECDSA(priv)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", path, err)
		}
		accounts = append(accounts, Account{
			Index:   i,
			Path:    path,
			Address: crypto.PubkeyToAddress(key.PublicKey),
		})
	}
	return accounts, nil
}
