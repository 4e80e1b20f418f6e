package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Bidon15/chainconf"
	"github.com/Bidon15/chainconf/internal/hdwallet"
	"github.com/Bidon15/chainconf/internal/preflight"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// deployerAuto derives the deployer from the network mnemonic.
const deployerAuto = "auto"

// checkCmd lints the configuration and runs RPC preflight checks.
var checkCmd = &cobra.Command{
	Use:   "check [network...]",
	Short: "Lint the configuration and check network endpoints",
	Long: `Lint the configuration, then check every selected network over RPC:
reachability, chain ID, gas price and, with --deployer, the deployer balance.

Lint findings are warnings unless --strict is given.
Use --deployer auto to check the first account derived from the network mnemonic.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Duration("timeout", preflight.DefaultTimeout, "Timeout for RPC calls per network")
	checkCmd.Flags().String("deployer", "", "Deployer address to check the balance of, or \"auto\"")
	checkCmd.Flags().Bool("strict", false, "Fail on lint findings")
	checkCmd.Flags().Bool("lint-only", false, "Skip RPC checks")
}

// CheckOutput represents the check output.
type CheckOutput struct {
	Lint    []string            `json:"lint" yaml:"lint"`
	Reports []*preflight.Report `json:"reports" yaml:"reports"`
	OK      bool                `json:"ok" yaml:"ok"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = cfg.NetworkNames()
	}
	for _, name := range names {
		if _, err := cfg.Network(name); err != nil {
			return err
		}
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	deployer, _ := cmd.Flags().GetString("deployer")
	strict, _ := cmd.Flags().GetBool("strict")
	lintOnly, _ := cmd.Flags().GetBool("lint-only")

	if deployer != "" && deployer != deployerAuto && !common.IsHexAddress(deployer) {
		return fmt.Errorf("invalid deployer address %q", deployer)
	}

	result := CheckOutput{Lint: []string{}, Reports: []*preflight.Report{}, OK: true}
	lintErr := cfg.Validate()
	result.Lint = lintMessages(lintErr)
	if strict && lintErr != nil {
		result.OK = false
	}

	if !lintOnly {
		checker := preflight.NewChecker().WithTimeout(timeout).WithLogger(logger)
		for _, name := range names {
			req := preflight.RequestFor(name, cfg.Networks[name])
			if req.RPCURL != "" && deployer != "" {
				req.Account, err = resolveDeployer(cfg, name, deployer)
				if err != nil {
					return err
				}
			}

			report, err := checker.Run(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("network %q: %w", name, err)
			}
			result.Reports = append(result.Reports, report)
			if !report.OK {
				result.OK = false
			}
		}
	}

	out := cmd.OutOrStdout()
	if format != outputTable {
		if err := chainconf.Encode(out, format, result); err != nil {
			return err
		}
	} else if err := printCheckTable(out, result); err != nil {
		return err
	}

	if !result.OK {
		return errors.New("configuration check failed")
	}
	return nil
}

// resolveDeployer returns the deployer address for network.
func resolveDeployer(cfg *chainconf.Config, network, deployer string) (string, error) {
	if deployer != deployerAuto {
		return deployer, nil
	}
	accounts, err := deriveAccounts(cfg, network, hdwallet.WithCount(1))
	if err != nil {
		return "", err
	}
	return accounts[0].Address.Hex(), nil
}

// lintMessages flattens a joined validation error.
func lintMessages(err error) []string {
	if err == nil {
		return []string{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		msgs := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

func printCheckTable(out io.Writer, result CheckOutput) error {
	for _, msg := range result.Lint {
		fmt.Fprintf(out, "%s %s\n", colorYellow(out, "warning:"), msg)
	}
	if len(result.Reports) == 0 {
		return nil
	}

	w := newTable(out)
	printTableHeader(w, out, "NETWORK", "CHECK", "STATUS", "MESSAGE")
	for _, r := range result.Reports {
		if r.Skipped {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Network, "-", colorYellow(out, "SKIP"), "in-process network")
			continue
		}
		for _, c := range r.Checks {
			status := colorGreen(out, "PASS")
			if !c.Passed {
				status = colorRed(out, "FAIL")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Network, c.Name, status, strings.TrimSpace(c.Message))
		}
	}
	return w.Flush()
}
