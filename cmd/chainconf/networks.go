package main

import (
	"fmt"
	"math/big"

	"github.com/Bidon15/chainconf"
	"github.com/Bidon15/chainconf/internal/preflight"
	"github.com/spf13/cobra"
)

// networksCmd lists the declared networks.
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List declared networks",
	Args:  cobra.NoArgs,
	RunE:  runNetworks,
}

// NetworkOutput represents a network in the list output.
type NetworkOutput struct {
	Name         string              `json:"name" yaml:"name"`
	URL          string              `json:"url,omitempty" yaml:"url,omitempty"`
	ChainID      uint64              `json:"chainId" yaml:"chainId"`
	GasPriceGwei string              `json:"gasPriceGwei" yaml:"gasPriceGwei"`
	ForkURL      string              `json:"forkUrl,omitempty" yaml:"forkUrl,omitempty"`
	HasMnemonic  bool                `json:"hasMnemonic" yaml:"hasMnemonic"`
	Explorer     *chainconf.Explorer `json:"explorer,omitempty" yaml:"explorer,omitempty"`
}

func runNetworks(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	rows := make([]NetworkOutput, 0, len(cfg.Networks))
	for _, name := range cfg.NetworkNames() {
		rows = append(rows, networkOutput(name, cfg.Networks[name]))
	}

	out := cmd.OutOrStdout()
	if format != outputTable {
		return chainconf.Encode(out, format, rows)
	}

	w := newTable(out)
	printTableHeader(w, out, "NAME", "CHAIN ID", "URL", "GAS PRICE", "FORKING", "MNEMONIC")
	for _, r := range rows {
		url := r.URL
		if url == "" {
			url = "(in-process)"
		}
		fork := "-"
		if r.ForkURL != "" {
			fork = r.ForkURL
		}
		mnemonic := "-"
		if r.HasMnemonic {
			mnemonic = "set"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s gwei\t%s\t%s\n", r.Name, r.ChainID, url, r.GasPriceGwei, fork, mnemonic)
	}
	return w.Flush()
}

func networkOutput(name string, n *chainconf.NetworkConfig) NetworkOutput {
	o := NetworkOutput{
		Name:         name,
		URL:          n.URL,
		ChainID:      n.ChainID,
		GasPriceGwei: preflight.WeiToGwei(new(big.Int).SetUint64(n.GasPrice)),
		HasMnemonic:  n.Accounts != nil && n.Accounts.Mnemonic != nil && *n.Accounts.Mnemonic != "",
	}
	if n.Forking != nil {
		o.ForkURL = n.Forking.URL
	}
	if e, ok := chainconf.ExplorerFor(n.ChainID); ok {
		o.Explorer = &e
	}
	return o
}
