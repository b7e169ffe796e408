package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

const testDeployFile = `
project = "yieldbox"
confirmations = 5

[mock]
initial_supply = "1000"

[networks.sepolia]
rpc_url = "${YB_TEST_SEPOLIA_RPC}"
chain_id = 11155111
explorer_url = "https://api-sepolia.etherscan.io/api"

[networks.mainnet]
rpc_url = "https://eth.example.org"
chain_id = 1

[networks.anvil]
rpc_url = "http://127.0.0.1:8545"

[networks.custom]
rpc_url = "http://custom.example.org"
chain_id = 99999
weth = "0x3333333333333333333333333333333333333333"
tags = ["testnet", "staging"]
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DeployFileName), []byte(content), 0644))
	return dir
}

func TestLoadDeployFile(t *testing.T) {
	t.Run("parses networks and expands env", func(t *testing.T) {
		t.Setenv("YB_TEST_SEPOLIA_RPC", "https://sepolia.example.org")
		dir := writeProject(t, testDeployFile)

		df, err := LoadDeployFile(dir)
		require.NoError(t, err)

		assert.Equal(t, "yieldbox", df.Project)
		assert.Equal(t, uint64(5), df.Confirmations)
		assert.Equal(t, config.DefaultArtifactsDir, df.ArtifactsDir)
		assert.Equal(t, "https://sepolia.example.org", df.Networks["sepolia"].RPCURL)
		assert.Equal(t, "1000", df.Mock.InitialSupply)
		assert.Equal(t, config.DefaultMockDeploymentName, df.Mock.DeploymentName)
		assert.Len(t, df.Networks, 4)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		df, err := LoadDeployFile(dir)
		require.NoError(t, err)

		assert.Equal(t, filepath.Base(dir), df.Project)
		assert.Equal(t, uint64(config.DefaultConfirmations), df.Confirmations)
		assert.Empty(t, df.Networks)
		assert.NotContains(t, df.GlobalRegistry, "~")
	})

	t.Run("env file is loaded", func(t *testing.T) {
		dir := writeProject(t, `
[networks.dev]
rpc_url = "${YB_TEST_DOTENV_RPC}"
chain_id = 31337
`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("YB_TEST_DOTENV_RPC=http://localhost:9999\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("YB_TEST_DOTENV_RPC") })

		df, err := LoadDeployFile(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999", df.Networks["dev"].RPCURL)
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := writeProject(t, "project = [")
		_, err := LoadDeployFile(dir)
		assert.Error(t, err)
	})
}

func TestNetworkResolver(t *testing.T) {
	dir := writeProject(t, testDeployFile)
	df, err := LoadDeployFile(dir)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("unknown network is chain not found", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(dir, DataDirName), df)
		_, err := r.Resolve(ctx, "nope")
		assert.True(t, errors.Is(err, domain.ErrChainNotFound))
	})

	t.Run("testnet derived from chain name with canonical WETH for display", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(dir, DataDirName), df)
		n, err := r.Resolve(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), n.ChainID)
		assert.True(t, n.IsTestnet())
		assert.Empty(t, n.WETH, "canonical WETH must not become an override")
		assert.Equal(t, "0xD8a79b479b0c47675E3882A1DAA494b6775CE227", n.KnownWETH)
	})

	t.Run("mainnet is not a testnet", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(dir, DataDirName), df)
		n, err := r.Resolve(ctx, "mainnet")
		require.NoError(t, err)
		assert.False(t, n.IsTestnet())
		assert.Empty(t, n.WETH)
		assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", n.KnownWETH)
	})

	t.Run("configured tags and explicit weth override", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(dir, DataDirName), df)
		n, err := r.Resolve(ctx, "custom")
		require.NoError(t, err)
		assert.Equal(t, []string{"testnet", "staging"}, n.Tags)
		assert.Equal(t, "0x3333333333333333333333333333333333333333", n.WETH)
	})

	t.Run("chain id fetched once and cached", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), DataDirName)
		calls := 0
		fetch := func(ctx context.Context, rpcURL string) (uint64, error) {
			calls++
			assert.Equal(t, "http://127.0.0.1:8545", rpcURL)
			return 31337, nil
		}

		r := NewNetworkResolver(dataDir, df).WithChainIDFetcher(fetch)
		n, err := r.Resolve(ctx, "anvil")
		require.NoError(t, err)
		assert.Equal(t, uint64(31337), n.ChainID)
		assert.True(t, n.HasTag(config.TagLocal))
		assert.True(t, n.IsTestnet())
		assert.Empty(t, n.WETH)

		// a fresh resolver reads the on-disk cache
		r2 := NewNetworkResolver(dataDir, df).WithChainIDFetcher(fetch)
		_, err = r2.Resolve(ctx, "anvil")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("fetch failure", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(t.TempDir(), DataDirName), df).
			WithChainIDFetcher(func(context.Context, string) (uint64, error) {
				return 0, errors.New("connection refused")
			})
		_, err := r.Resolve(ctx, "anvil")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("names are sorted", func(t *testing.T) {
		r := NewNetworkResolver(filepath.Join(dir, DataDirName), df)
		assert.Equal(t, []string{"anvil", "custom", "mainnet", "sepolia"}, r.Names())
	})
}

func TestProvider(t *testing.T) {
	dir := writeProject(t, testDeployFile)

	t.Run("resolves runtime config", func(t *testing.T) {
		v := SetupViper(dir, nil)
		v.Set("network", "mainnet")
		v.Set("tag", "v1.0.0")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, DataDirName), cfg.DataDir)
		assert.Equal(t, "v1.0.0", cfg.Tag)
		assert.Equal(t, "yieldbox", cfg.Project)
		assert.Equal(t, uint64(5), cfg.Confirmations)
		assert.True(t, cfg.Verify)
		assert.Equal(t, filepath.Join(dir, "out"), cfg.ArtifactsDir)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, uint64(1), cfg.Network.ChainID)
	})

	t.Run("confirmations flag overrides file", func(t *testing.T) {
		v := SetupViper(dir, nil)
		v.Set("confirmations", 1)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), cfg.Confirmations)
		assert.Nil(t, cfg.Network)
		assert.Equal(t, config.DefaultTag, cfg.Tag)
	})

	t.Run("unknown network fails", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "nope")

		_, err := Provider(v)
		assert.ErrorIs(t, err, domain.ErrChainNotFound)
	})
}

func TestDefaultTags(t *testing.T) {
	tests := []struct {
		name    string
		chainID uint64
		testnet bool
	}{
		{"ethereum mainnet", 1, false},
		{"arbitrum one", 42161, false},
		{"sepolia", 11155111, true},
		{"anvil", 31337, true},
		{"geth dev", 1337, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &config.Network{Tags: DefaultTags(tt.chainID)}
			assert.Equal(t, tt.testnet, n.IsTestnet())
		})
	}
}
