package chainconf

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func strPtr(s string) *string { return &s }

func TestLoad_MissingEnvFile(t *testing.T) {
	calls := 0
	lookup := func(key string) (string, bool) {
		calls++
		return "", false
	}

	cfg, err := Load(
		WithEnvFile(filepath.Join(t.TempDir(), ".env")),
		WithLookup(lookup),
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEnvFileMissing))
	assert.Nil(t, cfg)
	assert.Equal(t, 0, calls, "no variable may be read before the precondition passes")
}

func TestLoad_DefaultEnvFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err := Load(WithLookup(mapLookup(nil)))
	require.ErrorIs(t, err, ErrEnvFileMissing)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MNEMONIC=abc\n"), 0600))
	cfg, err := Load(WithLookup(mapLookup(nil)))
	require.NoError(t, err)
	require.NotNil(t, cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	assert.Equal(t, "abc", *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
}

func TestLoad_EmptyEnvFile(t *testing.T) {
	path := writeEnvFile(t, "")

	cfg, err := Load(WithEnvFile(path), WithLookup(mapLookup(nil)))
	require.NoError(t, err)

	assert.Nil(t, cfg.Networks[NetworkLocal].Forking)
	assert.Nil(t, cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	assert.Nil(t, cfg.Etherscan.APIKey)
}

func TestLoad_NilLogger(t *testing.T) {
	path := writeEnvFile(t, "MNEMONIC=words\n")

	var cfg *Config
	var err error
	require.NotPanics(t, func() {
		cfg, err = Load(WithEnvFile(path), WithLookup(mapLookup(nil)), WithLogger(nil))
	})
	require.NoError(t, err)
	assert.Equal(t, "words", *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
}

func TestLoad_EnvFileValues(t *testing.T) {
	path := writeEnvFile(t, `USE_LOCAL_TESTNET=1
MNEMONIC="test test test test test test test test test test test junk"
SNOWTRACE_API_KEY=file-key
`)

	cfg, err := Load(WithEnvFile(path), WithLookup(mapLookup(nil)))
	require.NoError(t, err)

	require.NotNil(t, cfg.Networks[NetworkLocal].Forking)
	assert.Equal(t, AvalancheRPCURL, cfg.Networks[NetworkLocal].Forking.URL)
	assert.Equal(t, "test test test test test test test test test test test junk", *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	assert.Equal(t, "file-key", *cfg.Etherscan.APIKey)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	path := writeEnvFile(t, "SNOWTRACE_API_KEY=file-key\nUSE_LOCAL_TESTNET=1\n")

	cfg, err := Load(WithEnvFile(path), WithLookup(mapLookup(map[string]string{
		EnvSnowtraceAPIKey: "process-key",
		EnvUseLocalTestnet: "0",
	})))
	require.NoError(t, err)

	assert.Equal(t, "process-key", *cfg.Etherscan.APIKey)
	assert.Nil(t, cfg.Networks[NetworkLocal].Forking)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvSnowtraceAPIKey, "from-os")
	path := writeEnvFile(t, "")

	cfg, err := Load(WithEnvFile(path))
	require.NoError(t, err)
	require.NotNil(t, cfg.Etherscan.APIKey)
	assert.Equal(t, "from-os", *cfg.Etherscan.APIKey)
}

func TestLoad_InvalidEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.Mkdir(path, 0700))

	_, err := Load(WithEnvFile(path), WithLookup(mapLookup(nil)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvFileInvalid)
}

func TestBuild_Forking(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantURL string
	}{
		{name: "enabled with 1", env: map[string]string{EnvUseLocalTestnet: "1"}, wantURL: AvalancheRPCURL},
		{name: "unset", env: nil},
		{name: "empty", env: map[string]string{EnvUseLocalTestnet: ""}},
		{name: "zero", env: map[string]string{EnvUseLocalTestnet: "0"}},
		{name: "true is not 1", env: map[string]string{EnvUseLocalTestnet: "true"}},
		{name: "padded", env: map[string]string{EnvUseLocalTestnet: " 1"}},
		{name: "eleven", env: map[string]string{EnvUseLocalTestnet: "11"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Build(mapLookup(tc.env))
			local := cfg.Networks[NetworkLocal]
			if tc.wantURL == "" {
				assert.Nil(t, local.Forking)
				return
			}
			require.NotNil(t, local.Forking)
			assert.Equal(t, tc.wantURL, local.Forking.URL)
		})
	}
}

func TestBuild_FixedValuesIgnoreEnvironment(t *testing.T) {
	envs := []map[string]string{
		nil,
		{EnvUseLocalTestnet: "1", EnvMnemonic: "m", EnvSnowtraceAPIKey: "k"},
		{"CHAIN_ID": "1", "GAS_PRICE": "1", "OPTIMIZER_RUNS": "1"},
	}

	for _, env := range envs {
		cfg := Build(mapLookup(env))

		assert.Equal(t, ChainIDLocal, cfg.Networks[NetworkLocal].ChainID)
		assert.Equal(t, uint64(31337), cfg.Networks[NetworkLocal].ChainID)
		assert.Equal(t, uint64(43114), cfg.Networks[NetworkMainnet].ChainID)
		assert.Equal(t, uint64(225000000000), cfg.Networks[NetworkLocal].GasPrice)
		assert.Equal(t, uint64(225000000000), cfg.Networks[NetworkMainnet].GasPrice)
		assert.Equal(t, AvalancheRPCURL, cfg.Networks[NetworkMainnet].URL)
		assert.Empty(t, cfg.Networks[NetworkLocal].URL)
		assert.True(t, cfg.Solidity.Settings.Optimizer.Enabled)
		assert.Equal(t, 200, cfg.Solidity.Settings.Optimizer.Runs)
		assert.Equal(t, "0.8.9", cfg.Solidity.Version)
	}
}

func TestBuild_PassThrough(t *testing.T) {
	t.Run("unset stays undefined", func(t *testing.T) {
		cfg := Build(mapLookup(nil))
		assert.Nil(t, cfg.Etherscan.APIKey)
		require.NotNil(t, cfg.Networks[NetworkMainnet].Accounts)
		assert.Nil(t, cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		cfg := Build(mapLookup(map[string]string{EnvMnemonic: "", EnvSnowtraceAPIKey: ""}))
		require.NotNil(t, cfg.Etherscan.APIKey)
		assert.Equal(t, "", *cfg.Etherscan.APIKey)
		require.NotNil(t, cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
		assert.Equal(t, "", *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	})

	t.Run("verbatim", func(t *testing.T) {
		raw := "  spaced words with trailing space "
		cfg := Build(mapLookup(map[string]string{EnvMnemonic: raw, EnvSnowtraceAPIKey: "KEY=with=equals"}))
		assert.Equal(t, raw, *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
		assert.Equal(t, "KEY=with=equals", *cfg.Etherscan.APIKey)
	})
}

func TestConfig_JSONLayout(t *testing.T) {
	cfg := Build(mapLookup(map[string]string{EnvUseLocalTestnet: "1", EnvSnowtraceAPIKey: "k"}))

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	networks := doc["networks"].(map[string]any)
	local := networks["hardhat"].(map[string]any)
	assert.Equal(t, float64(31337), local["chainId"])
	assert.Equal(t, float64(225000000000), local["gasPrice"])
	assert.Equal(t, AvalancheRPCURL, local["forking"].(map[string]any)["url"])
	assert.NotContains(t, local, "url")

	mainnet := networks["mainnet"].(map[string]any)
	assert.Equal(t, AvalancheRPCURL, mainnet["url"])
	assert.Equal(t, map[string]any{}, mainnet["accounts"], "unset mnemonic is omitted")

	assert.Equal(t, "k", doc["etherscan"].(map[string]any)["apiKey"])

	optimizer := doc["solidity"].(map[string]any)["settings"].(map[string]any)["optimizer"].(map[string]any)
	assert.Equal(t, true, optimizer["enabled"])
	assert.Equal(t, float64(200), optimizer["runs"])
}

func TestConfig_Network(t *testing.T) {
	cfg := Build(mapLookup(nil))

	n, err := cfg.Network(NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, ChainIDAvalanche, n.ChainID)

	_, err = cfg.Network("fuji")
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	assert.Equal(t, []string{"hardhat", "mainnet"}, cfg.NetworkNames())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		cfg := Build(mapLookup(map[string]string{EnvMnemonic: "words", EnvSnowtraceAPIKey: "k"}))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing secrets", func(t *testing.T) {
		cfg := Build(mapLookup(nil))
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingMnemonic)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
		assert.NotErrorIs(t, err, ErrInvalidOptimizer)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "networks.mainnet.accounts.mnemonic", vErr.Field)
	})

	t.Run("bad optimizer", func(t *testing.T) {
		cfg := Build(mapLookup(map[string]string{EnvMnemonic: "words", EnvSnowtraceAPIKey: "k"}))
		cfg.Solidity.Settings.Optimizer.Runs = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidOptimizer)
	})
}

func TestConfig_Redacted(t *testing.T) {
	mnemonic := "abandon ability able about above absent absorb abstract absurd abuse access accident"
	cfg := Build(mapLookup(map[string]string{
		EnvMnemonic:        mnemonic,
		EnvSnowtraceAPIKey: "short",
		EnvUseLocalTestnet: "1",
	}))

	red := cfg.Redacted()

	masked := *red.Networks[NetworkMainnet].Accounts.Mnemonic
	assert.Equal(t, "<12 words>", masked)
	assert.NotContains(t, masked, "aba")
	assert.NotContains(t, masked, "dent")
	assert.Equal(t, "****", *red.Etherscan.APIKey)
	assert.Equal(t, AvalancheRPCURL, red.Networks[NetworkLocal].Forking.URL)

	// original untouched
	assert.Equal(t, mnemonic, *cfg.Networks[NetworkMainnet].Accounts.Mnemonic)
	assert.Equal(t, "short", *cfg.Etherscan.APIKey)
}

func TestConfig_RedactedIsDeepCopy(t *testing.T) {
	cfg := Build(mapLookup(map[string]string{
		EnvMnemonic:        "test test test test test test test test test test test junk",
		EnvUseLocalTestnet: "1",
	}))

	red := cfg.Redacted()
	red.Networks[NetworkLocal].Forking.URL = "http://localhost:9650"
	red.Networks[NetworkLocal].GasPrice = 1
	red.Networks["fuji"] = &NetworkConfig{ChainID: ChainIDFuji}
	delete(red.Networks, NetworkMainnet)
	red.Solidity.Settings.Optimizer.Runs = 1

	assert.Equal(t, AvalancheRPCURL, cfg.Networks[NetworkLocal].Forking.URL)
	assert.Equal(t, DefaultGasPrice, cfg.Networks[NetworkLocal].GasPrice)
	assert.Equal(t, []string{NetworkLocal, NetworkMainnet}, cfg.NetworkNames())
	assert.Equal(t, OptimizerRuns, cfg.Solidity.Settings.Optimizer.Runs)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "abcd...mnop", MaskSecret("abcdefghijklmnop"))
}

func TestMaskMnemonic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "word", want: "<1 words>"},
		{in: "test test test test test test test test test test test junk", want: "<12 words>"},
		{in: " test  test\ttest ", want: "<3 words>"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaskMnemonic(tc.in), "input %q", tc.in)
	}
}

func TestExplorerFor(t *testing.T) {
	e, ok := ExplorerFor(ChainIDAvalanche)
	require.True(t, ok)
	assert.Equal(t, "snowtrace", e.Name)

	_, ok = ExplorerFor(ChainIDLocal)
	assert.False(t, ok)
}
