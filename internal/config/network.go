package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

// ChainIDFetcher returns the chain ID served by an RPC endpoint
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir    string
	deployFile *config.DeployFile
	fetch      ChainIDFetcher
	cache      *NetworkCache
	mu         sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"` // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, deployFile *config.DeployFile) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:    dataDir,
		deployFile: deployFile,
		fetch:      fetchChainID,
	}
	r.loadCache()
	return r
}

// WithChainIDFetcher replaces the RPC chain ID lookup
func (r *NetworkResolver) WithChainIDFetcher(fetch ChainIDFetcher) *NetworkResolver {
	r.fetch = fetch
	return r
}

// Names returns the configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.deployFile.Networks))
	for name := range r.deployFile.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	nc, exists := r.deployFile.Networks[networkName]
	if !exists {
		return nil, fmt.Errorf("%w: network '%s' not found in %s [networks]", domain.ErrChainNotFound, networkName, DeployFileName)
	}

	chainID := nc.ChainID
	if chainID == 0 {
		if nc.RPCURL == "" {
			return nil, fmt.Errorf("network '%s' has neither chain_id nor rpc_url", networkName)
		}
		fetched, err := r.chainIDFor(ctx, nc.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		chainID = fetched
	}

	tags := nc.Tags
	if len(tags) == 0 {
		tags = DefaultTags(chainID)
	}

	known, _ := KnownWETH(chainID)

	return &config.Network{
		Name:           networkName,
		ChainID:        chainID,
		ChainName:      ChainName(chainID),
		RPCURL:         nc.RPCURL,
		ExplorerURL:    nc.ExplorerURL,
		ExplorerAPIKey: nc.ExplorerAPIKey,
		Tags:           tags,
		WETH:           nc.WETH,
		KnownWETH:      known,
	}, nil
}

func (r *NetworkResolver) chainIDFor(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()
	if cached {
		return chainID, nil
	}

	chainID, err := r.fetch(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	r.updateCache(rpcURL, chainID)
	return chainID, nil
}

// fetchChainID asks the RPC endpoint for its chain ID
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]uint64)}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var loaded NetworkCache
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.RPCs == nil {
		return
	}
	r.cache = &loaded
}

// updateCache records a chain ID and saves the cache (errors ignored, cache is just for performance)
func (r *NetworkResolver) updateCache(rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(r.cachePath(), data, 0644)
}
