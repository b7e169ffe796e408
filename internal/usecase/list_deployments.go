package usecase

import (
	"context"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Tag    string // defaults to the runtime tag
	Name   string // fuzzy filter on deployment name
	Global bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Tag         string
	ChainID     uint64
	Global      bool
}

// ListDeployments is the use case for listing registry records on the current chain
type ListDeployments struct {
	config   *config.RuntimeConfig
	registry DeploymentRegistry
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, registry DeploymentRegistry) *ListDeployments {
	return &ListDeployments{config: cfg, registry: registry}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	if uc.config.Network == nil {
		return nil, domain.ErrChainNotFound
	}

	tag := params.Tag
	if tag == "" {
		tag = uc.config.Tag
	}
	chainID := uc.config.Network.ChainID

	var (
		deployments []*models.Deployment
		err         error
	)
	if params.Global {
		deployments, err = uc.registry.LoadGlobalDeployment(ctx, tag, uc.config.Project, chainID)
	} else {
		deployments, err = uc.registry.LoadLocalDeployment(ctx, tag, chainID)
	}
	if err != nil {
		return nil, err
	}

	if params.Name != "" {
		deployments = filterByName(deployments, params.Name)
	} else {
		sort.Slice(deployments, func(i, j int) bool {
			return deployments[i].Name < deployments[j].Name
		})
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Tag:         tag,
		ChainID:     chainID,
		Global:      params.Global,
	}, nil
}

// deploymentNames adapts a deployment slice to fuzzy.Source
type deploymentNames []*models.Deployment

func (d deploymentNames) String(i int) string { return d[i].Name }
func (d deploymentNames) Len() int            { return len(d) }

// filterByName keeps fuzzy matches, best match first
func filterByName(deployments []*models.Deployment, query string) []*models.Deployment {
	matches := fuzzy.FindFrom(query, deploymentNames(deployments))
	filtered := make([]*models.Deployment, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, deployments[m.Index])
	}
	return filtered
}
