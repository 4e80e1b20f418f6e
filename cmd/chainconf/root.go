package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Bidon15/chainconf"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Config keys
const (
	keyEnvFile = "env_file"
	keyOutput  = "output"
	keyVerbose = "verbose"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = chainconf.FormatJSON
	outputYAML  = chainconf.FormatYAML
)

// EnvPrefix is the prefix for environment variables that configure the CLI itself.
const EnvPrefix = "CHAINCONF"

var (
	rootCmd    *cobra.Command
	versionCmd *cobra.Command

	// v resolves CLI settings: flags, then CHAINCONF_* variables, then defaults.
	v = viper.New()
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "chainconf",
		Short: "chainconf - network and compiler configuration for Avalanche contracts",
		Long: `chainconf builds the toolchain configuration: the network registry,
explorer verification credentials and Solidity compiler settings.

A secrets file (.env) must exist in the working directory. Its values are
used for any variable not already set in the environment:
  USE_LOCAL_TESTNET   "1" forks the local network from the C-Chain RPC
  MNEMONIC            seed phrase for mainnet accounts
  SNOWTRACE_API_KEY   explorer verification API key

CLI settings can be provided via flags or environment variables:
  --env-file  or CHAINCONF_ENV_FILE  secrets file path (default .env)
  --output    or CHAINCONF_OUTPUT    table, json or yaml
  --verbose   or CHAINCONF_VERBOSE   debug logging on stderr`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, commit hash, and build date of chainconf",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "chainconf %s\n", Version)
			if v.GetBool(keyVerbose) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", Commit)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", BuildDate)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("env-file", chainconf.DefaultEnvFile, "Secrets file path (or CHAINCONF_ENV_FILE env)")
	flags.StringP("output", "o", outputTable, "Output format: table, json or yaml (or CHAINCONF_OUTPUT env)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")

	_ = v.BindPFlag(keyEnvFile, flags.Lookup("env-file"))
	_ = v.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = v.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(checkCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithArgs runs the root command with the provided arguments (for testing)
func ExecuteWithArgs(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// SetOutput sets the output writer for the root command (for testing)
func SetOutput(w io.Writer) {
	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
}

// ResetFlags resets every flag of every command to its default (for testing)
func ResetFlags() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		resetFlagSet := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		resetFlagSet(c.PersistentFlags())
		resetFlagSet(c.Flags())
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

// newLogger builds the CLI logger on w.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if v.GetBool(keyVerbose) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the toolchain configuration. A missing secrets file is
// returned before anything else happens.
func loadConfig(cmd *cobra.Command) (*chainconf.Config, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr())
	cfg, err := chainconf.Load(
		chainconf.WithEnvFile(v.GetString(keyEnvFile)),
		chainconf.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	switch f := strings.ToLower(v.GetString(keyOutput)); f {
	case outputTable, outputJSON, outputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (must be table, json or yaml)", f)
	}
}

// newTable creates a new tabwriter for formatted output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTableHeader prints a bold header row.
func printTableHeader(w *tabwriter.Writer, out io.Writer, columns ...string) {
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, colorBold(out, col))
	}
	fmt.Fprintln(w)
}

// Terminal colors

func colorRed(w io.Writer, s string) string {
	return colorize(w, "31", s)
}

func colorGreen(w io.Writer, s string) string {
	return colorize(w, "32", s)
}

func colorYellow(w io.Writer, s string) string {
	return colorize(w, "33", s)
}

func colorBold(w io.Writer, s string) string {
	return colorize(w, "1", s)
}

func colorize(w io.Writer, code, s string) string {
	if !isTTY(w) {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
