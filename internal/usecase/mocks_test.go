package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// MockRegistry is a mock implementation of DeploymentRegistry
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) LoadGlobalDeployment(ctx context.Context, tag, project string, chainID uint64) ([]*models.Deployment, error) {
	args := m.Called(ctx, tag, project, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockRegistry) LoadLocalDeployment(ctx context.Context, tag string, chainID uint64) ([]*models.Deployment, error) {
	args := m.Called(ctx, tag, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockRegistry) SaveGlobalDeployment(ctx context.Context, project string, deployment *models.Deployment) error {
	return m.Called(ctx, project, deployment).Error(0)
}

func (m *MockRegistry) SaveLocalDeployment(ctx context.Context, deployment *models.Deployment) error {
	return m.Called(ctx, deployment).Error(0)
}

// MockFactory is a mock implementation of ContractFactory
type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) GetContractFactory(ctx context.Context, name string) (*domain.Contract, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, entry *domain.DeploymentEntry, confirmations uint64) (*models.Deployment, error) {
	args := m.Called(ctx, entry, confirmations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

// MockVM is a mock implementation of DeployerVM that records added entries
type MockVM struct {
	mock.Mock
	added []*domain.DeploymentEntry
}

func (m *MockVM) Add(entry *domain.DeploymentEntry) usecase.DeployerVM {
	m.added = append(m.added, entry)
	return m
}

func (m *MockVM) Execute(ctx context.Context, confirmations uint64) error {
	return m.Called(ctx, confirmations).Error(0)
}

func (m *MockVM) Save(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVM) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVM) Deployments() []*models.Deployment {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Deployment)
}

func (m *MockVM) Reset() {
	m.added = nil
}

// MockConfirmer is a mock implementation of BroadcastConfirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) ConfirmBroadcast(ctx context.Context, network *config.Network, entries []*domain.DeploymentEntry) (bool, error) {
	args := m.Called(ctx, network, entries)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink collects progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
