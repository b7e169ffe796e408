package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
)

// WETHMockPrefix is the registry name prefix that identifies a wrapped native token
const WETHMockPrefix = "WETHMock"

// WETHSource tells where a WETH address came from
type WETHSource string

const (
	WETHSourceGlobal WETHSource = "global"
	WETHSourceLocal  WETHSource = "local"
	WETHSourceConfig WETHSource = "config"
	WETHSourceMock   WETHSource = "mock"
)

// WETHResolution is the outcome of the WETH lookup
type WETHResolution struct {
	Address    common.Address
	Source     WETHSource
	Deployment *models.Deployment // nil for override addresses
}

// ResolveWETH finds or deploys the wrapped native token for the current chain
type ResolveWETH struct {
	config   *config.RuntimeConfig
	registry DeploymentRegistry
	factory  ContractFactory
	deployer ContractDeployer
	sink     ProgressSink
	log      *slog.Logger
}

// NewResolveWETH creates a new ResolveWETH use case
func NewResolveWETH(
	cfg *config.RuntimeConfig,
	registry DeploymentRegistry,
	factory ContractFactory,
	deployer ContractDeployer,
	sink ProgressSink,
	log *slog.Logger,
) *ResolveWETH {
	return &ResolveWETH{
		config:   cfg,
		registry: registry,
		factory:  factory,
		deployer: deployer,
		sink:     sink,
		log:      log,
	}
}

// Run resolves the WETH address: global registry, local registry, then a
// fresh mock on testnets. Anything else fails. A network with an explicit
// weth override in ybdeploy.toml uses it once both registries miss.
func (uc *ResolveWETH) Run(ctx context.Context) (*WETHResolution, error) {
	network := uc.config.Network
	if network == nil {
		return nil, domain.ErrChainNotFound
	}
	tag := uc.config.Tag

	global, err := uc.registry.LoadGlobalDeployment(ctx, tag, uc.config.Project, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load global deployments: %w", err)
	}
	if dep, ok := findWETHMock(global); ok {
		return uc.fromDeployment(dep, WETHSourceGlobal)
	}

	local, err := uc.registry.LoadLocalDeployment(ctx, tag, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load local deployments: %w", err)
	}
	if dep, ok := findWETHMock(local); ok {
		return uc.fromDeployment(dep, WETHSourceLocal)
	}

	if network.WETH != "" {
		if !common.IsHexAddress(network.WETH) {
			return nil, fmt.Errorf("%w: configured WETH %q for %s", domain.ErrInvalidAddress, network.WETH, network.Name)
		}
		uc.log.Info("using weth override from config", "network", network.Name, "address", network.WETH)
		return &WETHResolution{Address: common.HexToAddress(network.WETH), Source: WETHSourceConfig}, nil
	}

	if !network.IsTestnet() {
		return nil, fmt.Errorf("%w on chain %d (%s)", domain.ErrWETHNotFound, network.ChainID, network.Name)
	}

	return uc.deployMock(ctx)
}

func (uc *ResolveWETH) fromDeployment(dep *models.Deployment, source WETHSource) (*WETHResolution, error) {
	if !common.IsHexAddress(dep.Address) {
		return nil, fmt.Errorf("%w: %s deployment %s has address %q", domain.ErrInvalidAddress, source, dep.Name, dep.Address)
	}
	uc.log.Debug("found WETH deployment", "source", source, "name", dep.Name, "address", dep.Address)
	return &WETHResolution{
		Address:    common.HexToAddress(dep.Address),
		Source:     source,
		Deployment: dep,
	}, nil
}

func (uc *ResolveWETH) deployMock(ctx context.Context) (*WETHResolution, error) {
	mock := uc.config.Mock.WithDefaults()

	supply, ok := new(big.Int).SetString(mock.InitialSupply, 10)
	if !ok {
		return nil, fmt.Errorf("invalid mock initial supply %q", mock.InitialSupply)
	}

	contract, err := uc.factory.GetContractFactory(ctx, mock.Artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", mock.Artifact, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "mock",
		Message: fmt.Sprintf("Deploying %s (%s)", mock.DeploymentName, mock.Artifact),
		Spinner: true,
	})

	dep, err := uc.deployer.Deploy(ctx, &domain.DeploymentEntry{
		Contract:       contract,
		DeploymentName: mock.DeploymentName,
		Args:           []any{supply},
	}, uc.config.Confirmations)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", mock.DeploymentName, err)
	}

	if err := uc.registry.SaveLocalDeployment(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", mock.DeploymentName, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "mock", Message: "Mock WETH deployed"})
	uc.log.Info("deployed mock WETH", "name", dep.Name, "address", dep.Address)

	return &WETHResolution{
		Address:    common.HexToAddress(dep.Address),
		Source:     WETHSourceMock,
		Deployment: dep,
	}, nil
}

func findWETHMock(deployments []*models.Deployment) (*models.Deployment, bool) {
	return lo.Find(deployments, func(d *models.Deployment) bool {
		return d.HasNamePrefix(WETHMockPrefix)
	})
}
