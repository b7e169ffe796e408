package usecase

import (
	"context"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
)

// DeploymentRegistry reads and writes persisted deployment records.
// The global registry is shared across projects, the local one belongs to this project.
type DeploymentRegistry interface {
	LoadGlobalDeployment(ctx context.Context, tag, project string, chainID uint64) ([]*models.Deployment, error)
	LoadLocalDeployment(ctx context.Context, tag string, chainID uint64) ([]*models.Deployment, error)
	SaveGlobalDeployment(ctx context.Context, project string, deployment *models.Deployment) error
	SaveLocalDeployment(ctx context.Context, deployment *models.Deployment) error
}

// ContractFactory provides deployable contracts from compiled artifacts
type ContractFactory interface {
	GetContractFactory(ctx context.Context, name string) (*domain.Contract, error)
}

// DeployerVM accumulates deployment entries and submits them in order
type DeployerVM interface {
	Add(entry *domain.DeploymentEntry) DeployerVM
	Execute(ctx context.Context, confirmations uint64) error
	Save(ctx context.Context) error
	Verify(ctx context.Context) error
	Deployments() []*models.Deployment
	Reset()
}

// ContractDeployer deploys a single entry outside of the queued batch
type ContractDeployer interface {
	Deploy(ctx context.Context, entry *domain.DeploymentEntry, confirmations uint64) (*models.Deployment, error)
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error
}

// BroadcastConfirmer asks before transactions are sent to a live network
type BroadcastConfirmer interface {
	ConfirmBroadcast(ctx context.Context, network *config.Network, entries []*domain.DeploymentEntry) (bool, error)
}

// NetworkResolver resolves configured networks
type NetworkResolver interface {
	Names() []string
	Resolve(ctx context.Context, name string) (*config.Network, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
