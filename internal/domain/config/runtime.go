package config

import (
	"slices"
	"time"
)

// Chain tags
const (
	TagTestnet = "testnet"
	TagLocal   = "local"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Tag     string   // Deployment run label, e.g. "default" or a release version
	Project string   // Project name used for global registry lookups
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	Confirmations  uint64
	Verify         bool

	// Paths
	ArtifactsDir   string
	GlobalRegistry string

	Mock MockConfig

	// Resolved configurations
	DeployFile *DeployFile
}

// Network represents a resolved network
type Network struct {
	Name           string   `json:"name"`
	ChainID        uint64   `json:"chainId"`
	ChainName      string   `json:"chainName,omitempty"` // canonical name from chain-selectors
	RPCURL         string   `json:"rpcUrl"`
	ExplorerURL    string   `json:"explorerUrl,omitempty"`
	ExplorerAPIKey string   `json:"-"`
	Tags           []string `json:"tags,omitempty"`
	WETH           string   `json:"weth,omitempty"`      // explicit weth override from ybdeploy.toml, empty unless set
	KnownWETH      string   `json:"knownWeth,omitempty"` // canonical WETH for the chain, display only
}

// HasTag reports whether the network carries the given tag
func (n *Network) HasTag(tag string) bool {
	return n != nil && slices.Contains(n.Tags, tag)
}

// IsTestnet reports whether the network is tagged "testnet"
func (n *Network) IsTestnet() bool {
	return n.HasTag(TagTestnet)
}
