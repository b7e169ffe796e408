package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/deployer"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/interactive"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/verification"
	"github.com/trebuchet-org/yieldbox-deploy/internal/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// RepositorySet provides file-backed registries and artifact loading
var RepositorySet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRegistry), new(*deployments.FileRepository)),

	contracts.NewRepositoryFromConfig,
	wire.Bind(new(usecase.ContractFactory), new(*contracts.Repository)),
)

// DeployerSet provides the on-chain deployer
var DeployerSet = wire.NewSet(
	deployer.NewVM,
	wire.Bind(new(usecase.DeployerVM), new(*deployer.VM)),
	wire.Bind(new(usecase.ContractDeployer), new(*deployer.VM)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.BroadcastConfirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	DeployerSet,
	VerificationSet,
	InteractiveSet,
	ConfigSet,
)
