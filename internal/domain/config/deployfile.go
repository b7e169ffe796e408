package config

// DeployFile represents the ybdeploy.toml project file
type DeployFile struct {
	Project        string                   `toml:"project"`
	ArtifactsDir   string                   `toml:"artifacts_dir,omitempty"`
	GlobalRegistry string                   `toml:"global_registry,omitempty"`
	Confirmations  uint64                   `toml:"confirmations,omitempty"`
	Mock           MockConfig               `toml:"mock"`
	Networks       map[string]NetworkConfig `toml:"networks"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	RPCURL         string   `toml:"rpc_url"`
	ChainID        uint64   `toml:"chain_id,omitempty"` // fetched from the RPC when omitted
	WETH           string   `toml:"weth,omitempty"`
	Tags           []string `toml:"tags,omitempty"`
	ExplorerURL    string   `toml:"explorer_url,omitempty"`
	ExplorerAPIKey string   `toml:"explorer_api_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

// MockConfig describes the mock wrapped native token deployed on testnets
type MockConfig struct {
	Artifact       string `toml:"artifact,omitempty"`
	DeploymentName string `toml:"deployment_name,omitempty"`
	InitialSupply  string `toml:"initial_supply,omitempty"` // decimal, base units
}

const (
	DefaultArtifactsDir       = "out"
	DefaultConfirmations      = 3
	DefaultMockArtifact       = "ERC20Mock"
	DefaultMockDeploymentName = "WETHMock"
	DefaultMockInitialSupply  = "1000000000000000000000000"
	DefaultTag                = "default"
)

// WithDefaults returns a copy with every unset field filled in
func (m MockConfig) WithDefaults() MockConfig {
	if m.Artifact == "" {
		m.Artifact = DefaultMockArtifact
	}
	if m.DeploymentName == "" {
		m.DeploymentName = DefaultMockDeploymentName
	}
	if m.InitialSupply == "" {
		m.InitialSupply = DefaultMockInitialSupply
	}
	return m
}
