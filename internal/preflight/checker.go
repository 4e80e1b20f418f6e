// Package preflight checks that the configured networks are usable before a
// deployment: the RPC answers, reports the expected chain, and accepts the
// configured gas price.
package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/Bidon15/chainconf"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultTimeout is the default timeout for RPC calls.
const DefaultTimeout = 10 * time.Second

// CheckName identifies a specific pre-flight check.
type CheckName string

const (
	// CheckRPCReachable verifies the RPC endpoint is reachable.
	CheckRPCReachable CheckName = "rpc_reachable"
	// CheckForkReachable verifies the fork source of a local network is reachable.
	CheckForkReachable CheckName = "fork_reachable"
	// CheckChainIDMatch verifies the chain ID matches the configured value.
	CheckChainIDMatch CheckName = "chain_id_match"
	// CheckGasPrice compares the configured gas price with the node's suggestion.
	CheckGasPrice CheckName = "gas_price"
	// CheckAccountBalance verifies the deployer account holds funds.
	CheckAccountBalance CheckName = "account_balance"
)

// CheckResult represents the result of a single pre-flight check.
type CheckResult struct {
	Name    CheckName      `json:"name" yaml:"name"`
	Passed  bool           `json:"passed" yaml:"passed"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// Request describes one network to check.
type Request struct {
	Network  string
	RPCURL   string
	ChainID  uint64
	GasPrice uint64
	ForkURL  string

	// Optional deployer account. MinBalanceWei defaults to any non-zero balance.
	Account       string
	MinBalanceWei *big.Int
}

// Report contains the results of all checks for one network.
type Report struct {
	Network string        `json:"network" yaml:"network"`
	OK      bool          `json:"ok" yaml:"ok"`
	Skipped bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Checks  []CheckResult `json:"checks" yaml:"checks"`
}

// RequestFor builds a Request from a configured network.
func RequestFor(name string, n *chainconf.NetworkConfig) *Request {
	req := &Request{
		Network:  name,
		RPCURL:   n.URL,
		ChainID:  n.ChainID,
		GasPrice: n.GasPrice,
	}
	if n.Forking != nil {
		req.ForkURL = n.Forking.URL
	}
	return req
}

// Checker performs pre-flight validation checks.
type Checker struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewChecker creates a new pre-flight checker.
func NewChecker() *Checker {
	return &Checker{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
}

// WithTimeout sets a custom timeout for RPC calls.
func (c *Checker) WithTimeout(timeout time.Duration) *Checker {
	c.timeout = timeout
	return c
}

// WithLogger sets the logger.
func (c *Checker) WithLogger(logger *slog.Logger) *Checker {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Run performs the checks for one network. Networks without an RPC URL are
// in-process; only their fork source, if any, is checked.
func (c *Checker) Run(ctx context.Context, req *Request) (*Report, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	rpcCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	report := &Report{
		Network: req.Network,
		OK:      true,
		Checks:  make([]CheckResult, 0, 4),
	}

	if req.RPCURL == "" {
		if req.ForkURL == "" {
			report.Skipped = true
			c.logger.Debug("skipping in-process network", slog.String("network", req.Network))
			return report, nil
		}
		client, _, result := c.checkReachable(rpcCtx, CheckForkReachable, req.ForkURL)
		if client != nil {
			client.Close()
		}
		c.record(report, result)
		return report, nil
	}

	client, chainID, result := c.checkReachable(rpcCtx, CheckRPCReachable, req.RPCURL)
	c.record(report, result)
	if client == nil {
		return report, nil
	}
	defer client.Close()

	c.record(report, checkChainIDMatch(chainID, req.ChainID))
	if req.GasPrice > 0 {
		c.record(report, c.checkGasPrice(rpcCtx, client, req.GasPrice))
	}
	if req.Account != "" {
		c.record(report, c.checkAccountBalance(rpcCtx, client, req.Account, req.MinBalanceWei))
	}

	return report, nil
}

func (c *Checker) record(report *Report, result CheckResult) {
	report.Checks = append(report.Checks, result)
	if !result.Passed {
		report.OK = false
	}
	c.logger.Info("preflight check",
		slog.String("network", report.Network),
		slog.String("check", string(result.Name)),
		slog.Bool("passed", result.Passed),
		slog.String("message", result.Message),
	)
}

// validateRequest validates the pre-flight request parameters.
func (c *Checker) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	if req.Network == "" {
		return fmt.Errorf("network is required")
	}
	if req.RPCURL != "" && req.ChainID == 0 {
		return fmt.Errorf("chain_id is required")
	}
	if req.Account != "" && !common.IsHexAddress(req.Account) {
		return fmt.Errorf("account is not a valid address")
	}
	return nil
}

// checkReachable dials rpcURL and fetches the chain ID, which later checks reuse.
func (c *Checker) checkReachable(ctx context.Context, name CheckName, rpcURL string) (*ethclient.Client, *big.Int, CheckResult) {
	result := CheckResult{
		Name:    name,
		Details: map[string]any{"url": rpcURL},
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to connect to RPC: %v", err)
		result.Details["error"] = err.Error()
		return nil, nil, result
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		result.Message = fmt.Sprintf("RPC connection failed: %v", err)
		result.Details["error"] = err.Error()
		return nil, nil, result
	}

	result.Passed = true
	result.Message = "Connected to RPC successfully"
	return client, chainID, result
}

// checkChainIDMatch verifies the reported chain ID matches the expected value.
func checkChainIDMatch(actualChainID *big.Int, expectedChainID uint64) CheckResult {
	result := CheckResult{
		Name: CheckChainIDMatch,
	}

	expected := new(big.Int).SetUint64(expectedChainID)
	if actualChainID.Cmp(expected) != 0 {
		result.Message = fmt.Sprintf("Chain ID mismatch: expected %d, got %s", expectedChainID, actualChainID)
		result.Details = map[string]any{
			"expected": expectedChainID,
			"actual":   actualChainID.String(),
		}
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Chain ID %d confirmed", expectedChainID)
	result.Details = map[string]any{"chain_id": expectedChainID}
	return result
}

// checkGasPrice passes when the configured price covers the node's suggestion.
func (c *Checker) checkGasPrice(ctx context.Context, client *ethclient.Client, configured uint64) CheckResult {
	result := CheckResult{
		Name: CheckGasPrice,
	}

	suggested, err := client.SuggestGasPrice(ctx)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to get gas price: %v", err)
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	have := new(big.Int).SetUint64(configured)
	result.Details = map[string]any{
		"configured_wei":  have.String(),
		"suggested_wei":   suggested.String(),
		"configured_gwei": WeiToGwei(have),
		"suggested_gwei":  WeiToGwei(suggested),
	}

	if have.Cmp(suggested) < 0 {
		result.Message = fmt.Sprintf("Configured gas price %s gwei is below the node's %s gwei", WeiToGwei(have), WeiToGwei(suggested))
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Configured gas price %s gwei covers the node's %s gwei", WeiToGwei(have), WeiToGwei(suggested))
	return result
}

// checkAccountBalance verifies the account holds at least minWei, or any
// funds when minWei is nil.
func (c *Checker) checkAccountBalance(ctx context.Context, client *ethclient.Client, account string, minWei *big.Int) CheckResult {
	result := CheckResult{
		Name: CheckAccountBalance,
	}

	addr := common.HexToAddress(account)
	balance, err := client.BalanceAt(ctx, addr, nil)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to get account balance: %v", err)
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	need := minWei
	if need == nil {
		need = big.NewInt(1)
	}

	result.Details = map[string]any{
		"address":  addr.Hex(),
		"have_wei": balance.String(),
		"need_wei": need.String(),
		"have":     WeiToEther(balance),
	}

	if balance.Cmp(need) < 0 {
		result.Message = fmt.Sprintf("Insufficient balance: have %s, need %s", WeiToEther(balance), WeiToEther(need))
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Account has sufficient balance: %s", WeiToEther(balance))
	return result
}

// WeiToEther converts wei to a whole-coin string with 4 decimals.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	return f.Text('f', 4)
}

// WeiToGwei converts wei to a gwei string with up to 9 decimals.
func WeiToGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9))
	return f.Text('f', -1)
}
