package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
)

// Deployment names used in the registries
const (
	YieldBoxName           = "YieldBox"
	YieldBoxURIBuilderName = "YieldBoxURIBuilder"
)

// YieldBoxEntries holds the two entries of a YieldBox deployment, in deployment order
type YieldBoxEntries struct {
	URIBuilder *domain.DeploymentEntry
	YieldBox   *domain.DeploymentEntry
}

// All returns the entries in deployment order
func (e *YieldBoxEntries) All() []*domain.DeploymentEntry {
	return []*domain.DeploymentEntry{e.URIBuilder, e.YieldBox}
}

// BuildYieldBox constructs the deployment entries for YieldBox
type BuildYieldBox struct {
	factory ContractFactory
}

// NewBuildYieldBox creates a new BuildYieldBox use case
func NewBuildYieldBox(factory ContractFactory) *BuildYieldBox {
	return &BuildYieldBox{factory: factory}
}

// Run builds the URI builder entry and the YieldBox entry. The YieldBox
// second constructor argument is filled in with the URI builder address at execution.
func (uc *BuildYieldBox) Run(ctx context.Context, weth common.Address) (*YieldBoxEntries, error) {
	uriBuilder, err := uc.factory.GetContractFactory(ctx, YieldBoxURIBuilderName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", YieldBoxURIBuilderName, err)
	}

	yieldBox, err := uc.factory.GetContractFactory(ctx, YieldBoxName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", YieldBoxName, err)
	}

	return &YieldBoxEntries{
		URIBuilder: &domain.DeploymentEntry{
			Contract:       uriBuilder,
			DeploymentName: YieldBoxURIBuilderName,
			Args:           []any{},
		},
		YieldBox: &domain.DeploymentEntry{
			Contract:       yieldBox,
			DeploymentName: YieldBoxName,
			Args: []any{
				weth,
				common.Address{}, // YieldBoxURIBuilder, substituted by the deployer
			},
			DependsOn: []domain.Dependency{
				{ArgPosition: 1, DeploymentName: YieldBoxURIBuilderName},
			},
		},
	}, nil
}
