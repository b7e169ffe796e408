package config

import (
	"strings"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

// Canonical WETH deployments per chain ID. Shown by `chains` only; deploys
// resolve WETH from the registries or a testnet mock.
var knownWETH = map[uint64]string{
	1:        "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", // ethereum mainnet
	42161:    "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // arbitrum one
	421614:   "0x2EAe4fbc552fE35C1D3Df2B546032409bb0E431E", // arbitrum sepolia
	11155111: "0xD8a79b479b0c47675E3882A1DAA494b6775CE227", // sepolia
	11155420: "0x4fB538Ed1a085200bD08F66083B72c0bfEb29112", // optimism sepolia
}

// Local development chains (anvil, hardhat, geth --dev)
var localChainIDs = map[uint64]bool{
	31337: true,
	1337:  true,
}

// KnownWETH returns the canonical WETH address for a chain, if any
func KnownWETH(chainID uint64) (string, bool) {
	addr, ok := knownWETH[chainID]
	return addr, ok
}

// ChainName returns the canonical chain name from chain-selectors, or "" when unknown
func ChainName(chainID uint64) string {
	if localChainIDs[chainID] {
		return "local"
	}
	chain, ok := chainsel.ChainByEvmChainID(chainID)
	if !ok {
		return ""
	}
	return chain.Name
}

// DefaultTags derives chain tags when none are configured
func DefaultTags(chainID uint64) []string {
	if localChainIDs[chainID] {
		return []string{config.TagLocal, config.TagTestnet}
	}
	if strings.Contains(ChainName(chainID), "testnet") {
		return []string{config.TagTestnet}
	}
	return nil
}
