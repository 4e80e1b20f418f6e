package main

import (
	"github.com/Bidon15/chainconf"
	"github.com/spf13/cobra"
)

// showCmd prints the resolved configuration.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Print the configuration as the toolchain consumes it.

The mnemonic and explorer API key are masked unless --reveal is given.
Table output is rendered as JSON.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("reveal", false, "Print secrets unmasked")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	if format == outputTable {
		format = outputJSON
	}

	reveal, _ := cmd.Flags().GetBool("reveal")
	if !reveal {
		cfg = cfg.Redacted()
	}

	return chainconf.Encode(cmd.OutOrStdout(), format, cfg)
}
