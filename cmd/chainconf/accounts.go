package main

import (
	"fmt"
	"log/slog"

	"github.com/Bidon15/chainconf"
	"github.com/Bidon15/chainconf/internal/hdwallet"
	"github.com/spf13/cobra"
)

// accountsCmd derives the signing accounts of a network.
var accountsCmd = &cobra.Command{
	Use:   "accounts [network]",
	Short: "Derive the accounts of a mnemonic-configured network",
	Long: `Derive the signing accounts from the network's mnemonic.

Defaults to the mainnet network and the toolchain's derivation settings:
path m/44'/60'/0'/0, initial index 0, 20 accounts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAccounts,
}

func init() {
	accountsCmd.Flags().Int("count", hdwallet.DefaultCount, "Number of accounts to derive")
	accountsCmd.Flags().Int("initial-index", hdwallet.DefaultInitialIndex, "First account index")
	accountsCmd.Flags().String("path", hdwallet.DefaultPath, "Parent derivation path")
}

// AccountListResult represents the accounts output.
type AccountListResult struct {
	Network  string             `json:"network" yaml:"network"`
	Accounts []hdwallet.Account `json:"accounts" yaml:"accounts"`
}

func runAccounts(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	name := chainconf.NetworkMainnet
	if len(args) == 1 {
		name = args[0]
	}

	count, _ := cmd.Flags().GetInt("count")
	initial, _ := cmd.Flags().GetInt("initial-index")
	path, _ := cmd.Flags().GetString("path")

	accounts, err := deriveAccounts(cfg, name,
		hdwallet.WithCount(count),
		hdwallet.WithInitialIndex(initial),
		hdwallet.WithPath(path),
	)
	if err != nil {
		return err
	}
	logger.Debug("derived accounts",
		slog.String("network", name),
		slog.Int("count", len(accounts)),
	)

	out := cmd.OutOrStdout()
	if format != outputTable {
		return chainconf.Encode(out, format, AccountListResult{Network: name, Accounts: accounts})
	}

	w := newTable(out)
	printTableHeader(w, out, "INDEX", "PATH", "ADDRESS")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\n", a.Index, a.Path, a.Address.Hex())
	}
	return w.Flush()
}

// deriveAccounts derives accounts from the mnemonic configured for network.
func deriveAccounts(cfg *chainconf.Config, network string, opts ...hdwallet.Option) ([]hdwallet.Account, error) {
	n, err := cfg.Network(network)
	if err != nil {
		return nil, err
	}
	if n.Accounts == nil || n.Accounts.Mnemonic == nil || *n.Accounts.Mnemonic == "" {
		return nil, fmt.Errorf("network %q: %w", network, chainconf.ErrMissingMnemonic)
	}
	accounts, err := hdwallet.Derive(*n.Accounts.Mnemonic, opts...)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", network, err)
	}
	return accounts, nil
}
