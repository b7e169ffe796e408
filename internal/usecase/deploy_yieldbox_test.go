package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

func yieldBoxFactory() *MockFactory {
	factory := new(MockFactory)
	factory.On("GetContractFactory", mock.Anything, "YieldBoxURIBuilder").Return(&domain.Contract{Name: "YieldBoxURIBuilder"}, nil)
	factory.On("GetContractFactory", mock.Anything, "YieldBox").Return(&domain.Contract{Name: "YieldBox"}, nil)
	factory.On("GetContractFactory", mock.Anything, "ERC20Mock").Return(&domain.Contract{Name: "ERC20Mock"}, nil)
	return factory
}

func TestBuildYieldBox(t *testing.T) {
	ctx := context.Background()
	weth := common.HexToAddress(globalWETH)

	t.Run("builds exactly two entries in order", func(t *testing.T) {
		uc := usecase.NewBuildYieldBox(yieldBoxFactory())
		entries, err := uc.Run(ctx, weth)
		require.NoError(t, err)

		all := entries.All()
		require.Len(t, all, 2)
		assert.Equal(t, usecase.YieldBoxURIBuilderName, all[0].DeploymentName)
		assert.Empty(t, all[0].Args)
		assert.Empty(t, all[0].DependsOn)

		yb := all[1]
		assert.Equal(t, usecase.YieldBoxName, yb.DeploymentName)
		require.Len(t, yb.Args, 2)
		assert.Equal(t, weth, yb.Args[0])
		assert.Equal(t, []domain.Dependency{{ArgPosition: 1, DeploymentName: usecase.YieldBoxURIBuilderName}}, yb.DependsOn)
	})

	t.Run("second argument resolves to the URI builder address", func(t *testing.T) {
		uc := usecase.NewBuildYieldBox(yieldBoxFactory())
		entries, err := uc.Run(ctx, weth)
		require.NoError(t, err)

		uri := common.HexToAddress("0x5555555555555555555555555555555555555555")
		args, err := entries.YieldBox.ResolveArgs(map[string]common.Address{usecase.YieldBoxURIBuilderName: uri})
		require.NoError(t, err)
		assert.Equal(t, []any{weth, uri}, args)
	})

	t.Run("missing artifact", func(t *testing.T) {
		factory := new(MockFactory)
		factory.On("GetContractFactory", mock.Anything, "YieldBoxURIBuilder").Return(nil, domain.ErrContractNotFound)

		_, err := usecase.NewBuildYieldBox(factory).Run(ctx, weth)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})
}

type deployFixture struct {
	cfg       *config.RuntimeConfig
	registry  *MockRegistry
	factory   *MockFactory
	deployer  *MockDeployer
	vm        *MockVM
	confirmer *MockConfirmer
	sink      *MockProgressSink
}

func newDeployFixture(network *config.Network) *deployFixture {
	return &deployFixture{
		cfg:       runtimeConfig(network),
		registry:  new(MockRegistry),
		factory:   yieldBoxFactory(),
		deployer:  new(MockDeployer),
		vm:        new(MockVM),
		confirmer: new(MockConfirmer),
		sink:      &MockProgressSink{},
	}
}

func (f *deployFixture) useCase() *usecase.DeployYieldBox {
	resolve := usecase.NewResolveWETH(f.cfg, f.registry, f.factory, f.deployer, f.sink, discardLogger())
	return usecase.NewDeployYieldBox(f.cfg, resolve, usecase.NewBuildYieldBox(f.factory), f.vm, f.confirmer, f.sink, discardLogger())
}

func (f *deployFixture) emptyRegistries() {
	f.registry.On("LoadGlobalDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Deployment{}, nil)
	f.registry.On("LoadLocalDeployment", mock.Anything, mock.Anything, mock.Anything).Return([]*models.Deployment{}, nil)
}

func TestDeployYieldBox(t *testing.T) {
	ctx := context.Background()

	t.Run("testnet deploys mock and feeds it to YieldBox", func(t *testing.T) {
		f := newDeployFixture(sepolia())
		f.emptyRegistries()

		mockDep := &models.Deployment{Name: "WETHMock", Address: mockWETH}
		f.deployer.On("Deploy", mock.Anything, mock.Anything, uint64(3)).Return(mockDep, nil)
		f.registry.On("SaveLocalDeployment", mock.Anything, mockDep).Return(nil)

		executed := []*models.Deployment{
			{Name: "YieldBoxURIBuilder", Address: "0x5555555555555555555555555555555555555555"},
			{Name: "YieldBox", Address: "0x6666666666666666666666666666666666666666"},
		}
		f.vm.On("Execute", mock.Anything, uint64(3)).Return(nil)
		f.vm.On("Save", mock.Anything).Return(nil)
		f.vm.On("Verify", mock.Anything).Return(nil)
		f.vm.On("Deployments").Return(executed)

		result, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})
		require.NoError(t, err)

		require.Len(t, f.vm.added, 2)
		assert.Equal(t, "YieldBoxURIBuilder", f.vm.added[0].DeploymentName)
		assert.Equal(t, "YieldBox", f.vm.added[1].DeploymentName)
		assert.Equal(t, common.HexToAddress(mockWETH), f.vm.added[1].Args[0])

		assert.Equal(t, usecase.WETHSourceMock, result.WETH.Source)
		assert.True(t, result.Verified)
		assert.Empty(t, result.SkipReason)
		assert.Equal(t, executed, result.Deployments)
		f.confirmer.AssertNotCalled(t, "ConfirmBroadcast", mock.Anything, mock.Anything, mock.Anything)
		f.vm.AssertExpectations(t)
	})

	t.Run("non-testnet without WETH fails before execution", func(t *testing.T) {
		f := newDeployFixture(mainnet())
		f.emptyRegistries()

		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})

		assert.ErrorIs(t, err, domain.ErrWETHNotFound)
		assert.Empty(t, f.vm.added)
		f.vm.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("live network asks for confirmation", func(t *testing.T) {
		network := mainnet()
		network.WETH = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
		f := newDeployFixture(network)
		f.emptyRegistries()
		f.confirmer.On("ConfirmBroadcast", mock.Anything, network, mock.Anything).Return(false, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})

		assert.ErrorIs(t, err, domain.ErrBroadcastCancelled)
		f.vm.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("confirmed live deploy skips verify when asked", func(t *testing.T) {
		network := mainnet()
		network.WETH = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
		f := newDeployFixture(network)
		f.emptyRegistries()
		f.confirmer.On("ConfirmBroadcast", mock.Anything, network, mock.Anything).Return(true, nil)
		f.vm.On("Execute", mock.Anything, uint64(6)).Return(nil)
		f.vm.On("Save", mock.Anything).Return(nil)
		f.vm.On("Deployments").Return([]*models.Deployment{})

		result, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{Confirmations: 6, SkipVerify: true})

		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, "disabled", result.SkipReason)
		assert.Equal(t, usecase.WETHSourceConfig, result.WETH.Source)
		assert.Equal(t, common.HexToAddress(network.WETH), f.vm.added[1].Args[0])
		f.vm.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("spinner is settled before the broadcast prompt", func(t *testing.T) {
		network := mainnet()
		network.WETH = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
		f := newDeployFixture(network)
		f.emptyRegistries()

		var lastAtPrompt usecase.ProgressEvent
		f.confirmer.On("ConfirmBroadcast", mock.Anything, network, mock.Anything).
			Run(func(mock.Arguments) {
				require.NotEmpty(t, f.sink.events)
				lastAtPrompt = f.sink.events[len(f.sink.events)-1]
			}).
			Return(false, nil)

		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})

		assert.ErrorIs(t, err, domain.ErrBroadcastCancelled)
		assert.Equal(t, "weth", lastAtPrompt.Stage)
		assert.False(t, lastAtPrompt.Spinner)
		assert.Contains(t, lastAtPrompt.Message, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	})

	t.Run("local chain skips verification and reports it", func(t *testing.T) {
		network := &config.Network{Name: "anvil", ChainID: 31337, Tags: []string{config.TagLocal, config.TagTestnet}}
		f := newDeployFixture(network)
		f.registry.On("LoadGlobalDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Deployment{
			{Name: "WETHMock", Address: globalWETH},
		}, nil)
		f.vm.On("Execute", mock.Anything, uint64(3)).Return(nil)
		f.vm.On("Save", mock.Anything).Return(nil)
		f.vm.On("Deployments").Return([]*models.Deployment{})

		result, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})

		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, "local chain", result.SkipReason)
		f.vm.AssertNotCalled(t, "Verify", mock.Anything)
		for _, e := range f.sink.events {
			assert.NotEqual(t, "verify", e.Stage)
		}
	})

	t.Run("execute failure stops the run", func(t *testing.T) {
		f := newDeployFixture(sepolia())
		f.registry.On("LoadGlobalDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Deployment{
			{Name: "WETHMock", Address: globalWETH},
		}, nil)
		f.vm.On("Execute", mock.Anything, uint64(3)).Return(errors.New("nonce too low"))

		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})

		assert.ErrorContains(t, err, "nonce too low")
		f.vm.AssertNotCalled(t, "Save", mock.Anything)
		f.vm.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("verify failure propagates", func(t *testing.T) {
		f := newDeployFixture(sepolia())
		f.registry.On("LoadGlobalDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*models.Deployment{
			{Name: "WETHMock", Address: globalWETH},
		}, nil)
		f.vm.On("Execute", mock.Anything, uint64(3)).Return(nil)
		f.vm.On("Save", mock.Anything).Return(nil)
		f.vm.On("Verify", mock.Anything).Return(domain.ErrVerificationFailed)

		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})
		assert.ErrorIs(t, err, domain.ErrVerificationFailed)
	})

	t.Run("no network selected", func(t *testing.T) {
		f := newDeployFixture(nil)
		_, err := f.useCase().Run(ctx, usecase.DeployYieldBoxParams{})
		assert.ErrorIs(t, err, domain.ErrChainNotFound)
	})
}
