package usecase

import (
	"context"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

// NetworkInfo describes one configured network
type NetworkInfo struct {
	Name    string
	Network *config.Network // nil when resolution failed
	Error   error
}

// NetworksResult contains the configured networks
type NetworksResult struct {
	Networks       []NetworkInfo
	CurrentNetwork string
}

// ListNetworks is the use case for listing configured networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{config: cfg, resolver: resolver}
}

// Run resolves every configured network. Failures are reported per network.
func (uc *ListNetworks) Run(ctx context.Context) (*NetworksResult, error) {
	result := &NetworksResult{}
	if uc.config.Network != nil {
		result.CurrentNetwork = uc.config.Network.Name
	}

	for _, name := range uc.resolver.Names() {
		network, err := uc.resolver.Resolve(ctx, name)
		result.Networks = append(result.Networks, NetworkInfo{
			Name:    name,
			Network: network,
			Error:   err,
		})
	}

	return result, nil
}
