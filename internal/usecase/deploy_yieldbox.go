package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
)

// DeployYieldBoxParams overrides runtime settings for a single run
type DeployYieldBoxParams struct {
	Confirmations uint64 // 0 uses the runtime config value
	SkipVerify    bool
}

// DeployYieldBoxResult contains the outcome of a YieldBox deployment
type DeployYieldBoxResult struct {
	Network     *config.Network
	Tag         string
	WETH        *WETHResolution
	Deployments []*models.Deployment
	Verified    bool
	SkipReason  string // why verification did not run, empty when it ran
}

// DeployYieldBox is the use case behind the deploys:yieldBox task
type DeployYieldBox struct {
	config      *config.RuntimeConfig
	resolveWETH *ResolveWETH
	build       *BuildYieldBox
	vm          DeployerVM
	confirmer   BroadcastConfirmer
	sink        ProgressSink
	log         *slog.Logger
}

// NewDeployYieldBox creates a new DeployYieldBox use case
func NewDeployYieldBox(
	cfg *config.RuntimeConfig,
	resolveWETH *ResolveWETH,
	build *BuildYieldBox,
	vm DeployerVM,
	confirmer BroadcastConfirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployYieldBox {
	return &DeployYieldBox{
		config:      cfg,
		resolveWETH: resolveWETH,
		build:       build,
		vm:          vm,
		confirmer:   confirmer,
		sink:        sink,
		log:         log,
	}
}

// Run resolves WETH, builds the entries and drives the deployer VM through
// execute, save and verify. Each step runs only after the previous one succeeded.
func (uc *DeployYieldBox) Run(ctx context.Context, params DeployYieldBoxParams) (*DeployYieldBoxResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, domain.ErrChainNotFound
	}

	confirmations := params.Confirmations
	if confirmations == 0 {
		confirmations = uc.config.Confirmations
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "weth", Message: "Resolving WETH", Spinner: true})
	weth, err := uc.resolveWETH.Run(ctx)
	if err != nil {
		return nil, err
	}
	uc.log.Info("resolved WETH", "source", weth.Source, "address", weth.Address.Hex(), "chain", network.ChainID)
	// settle the spinner before the broadcast prompt takes the terminal
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "weth", Message: fmt.Sprintf("Using WETH %s (%s)", weth.Address.Hex(), weth.Source)})

	entries, err := uc.build.Run(ctx, weth.Address)
	if err != nil {
		return nil, err
	}

	if !network.IsTestnet() {
		ok, err := uc.confirmer.ConfirmBroadcast(ctx, network, entries.All())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrBroadcastCancelled
		}
	}

	uc.vm.Reset()
	uc.vm.Add(entries.URIBuilder).Add(entries.YieldBox)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "execute",
		Message: fmt.Sprintf("Deploying to %s (waiting for %d confirmations)", network.Name, confirmations),
		Spinner: true,
	})
	if err := uc.vm.Execute(ctx, confirmations); err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "save", Message: "Saving deployments", Spinner: true})
	if err := uc.vm.Save(ctx); err != nil {
		return nil, err
	}

	result := &DeployYieldBoxResult{
		Network: network,
		Tag:     uc.config.Tag,
		WETH:    weth,
	}

	switch {
	case !uc.config.Verify || params.SkipVerify:
		result.SkipReason = "disabled"
	case network.HasTag(config.TagLocal):
		uc.log.Info("skipping verification on local chain", "network", network.Name, "chain", network.ChainID)
		result.SkipReason = "local chain"
	default:
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "verify", Message: "Verifying contracts", Spinner: true})
		if err := uc.vm.Verify(ctx); err != nil {
			return nil, err
		}
		result.Verified = true
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "YieldBox deployed"})

	result.Deployments = uc.vm.Deployments()
	return result, nil
}
