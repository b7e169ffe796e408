package deployer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

const defaultPollInterval = 2 * time.Second

// VM queues deployment entries and submits them one by one
type VM struct {
	config   *config.RuntimeConfig
	registry usecase.DeploymentRegistry
	verifier usecase.ContractVerifier
	sink     usecase.ProgressSink
	log      *slog.Logger

	dial         dialFunc
	signer       signerFunc
	pollInterval time.Duration
	now          func() time.Time

	mu       sync.Mutex
	entries  []*domain.DeploymentEntry
	executed []*models.Deployment
}

var (
	_ usecase.DeployerVM       = (*VM)(nil)
	_ usecase.ContractDeployer = (*VM)(nil)
)

// NewVM creates a deployer signing with PRIVATE_KEY against the configured network
func NewVM(
	cfg *config.RuntimeConfig,
	registry usecase.DeploymentRegistry,
	verifier usecase.ContractVerifier,
	sink usecase.ProgressSink,
	log *slog.Logger,
) *VM {
	return &VM{
		config:       cfg,
		registry:     registry,
		verifier:     verifier,
		sink:         sink,
		log:          log.With("component", "deployer"),
		dial:         dialEthereum,
		signer:       signerFromEnv,
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
}

// Add queues an entry
func (v *VM) Add(entry *domain.DeploymentEntry) usecase.DeployerVM {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append(v.entries, entry)
	return v
}

// Reset drops queued entries and executed records
func (v *VM) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = nil
	v.executed = nil
}

// Deployments returns the records produced by the last Execute
func (v *VM) Deployments() []*models.Deployment {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*models.Deployment, len(v.executed))
	copy(out, v.executed)
	return out
}

// Execute deploys every queued entry in order. Each entry waits for
// confirmations before the next one is sent. Dependencies are checked
// before anything is submitted.
func (v *VM) Execute(ctx context.Context, confirmations uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.entries) == 0 {
		return domain.ErrNothingToExecute
	}
	if err := validateOrder(v.entries); err != nil {
		return err
	}

	session, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer session.conn.close()

	v.executed = nil
	addresses := make(map[string]common.Address, len(v.entries))
	for i, entry := range v.entries {
		v.sink.OnProgress(ctx, usecase.ProgressEvent{
			Stage:   "execute",
			Current: i + 1,
			Total:   len(v.entries),
			Message: fmt.Sprintf("Deploying %s", entry.DeploymentName),
			Spinner: true,
		})

		record, err := v.deploy(ctx, session, entry, addresses, confirmations)
		if err != nil {
			return fmt.Errorf("failed to deploy %s: %w", entry.DeploymentName, err)
		}
		addresses[entry.DeploymentName] = common.HexToAddress(record.Address)
		v.executed = append(v.executed, record)
	}

	return nil
}

// Deploy sends a single entry outside of the queue
func (v *VM) Deploy(ctx context.Context, entry *domain.DeploymentEntry, confirmations uint64) (*models.Deployment, error) {
	if err := entry.ValidateDependencies(nil); err != nil {
		return nil, err
	}

	session, err := v.open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.conn.close()

	return v.deploy(ctx, session, entry, nil, confirmations)
}

// Save writes every executed record to the local and global registries
func (v *VM) Save(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.executed) == 0 {
		return domain.ErrNothingToExecute
	}

	for _, d := range v.executed {
		if err := v.save(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (v *VM) save(ctx context.Context, d *models.Deployment) error {
	if err := v.registry.SaveLocalDeployment(ctx, d); err != nil {
		return fmt.Errorf("failed to save %s locally: %w", d.Name, err)
	}
	if err := v.registry.SaveGlobalDeployment(ctx, v.config.Project, d); err != nil {
		return fmt.Errorf("failed to save %s globally: %w", d.Name, err)
	}
	v.log.Debug("saved deployment", "name", d.Name, "address", d.Address, "tag", d.Tag)
	return nil
}

// Verify submits every executed record for explorer verification. Failures
// are recorded per deployment; an error is returned only when none verified.
func (v *VM) Verify(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.executed) == 0 {
		return domain.ErrNothingToExecute
	}

	network := v.config.Network
	if network.HasTag(config.TagLocal) {
		v.log.Info("skipping verification on local chain", "network", network.Name)
		return nil
	}

	var failures []string
	for i, d := range v.executed {
		v.sink.OnProgress(ctx, usecase.ProgressEvent{
			Stage:   "verify",
			Current: i + 1,
			Total:   len(v.executed),
			Message: fmt.Sprintf("Verifying %s", d.Name),
			Spinner: true,
		})

		if err := v.verifier.Verify(ctx, d, network); err != nil {
			d.Verification.Status = models.VerificationStatusFailed
			d.Verification.Reason = err.Error()
			failures = append(failures, fmt.Sprintf("%s: %v", d.Name, err))
			v.sink.Error(fmt.Sprintf("Verification of %s failed: %v", d.Name, err))
		} else {
			d.Verification.Status = models.VerificationStatusVerified
			d.Verification.Reason = ""
			v.sink.Info(fmt.Sprintf("Verified %s", d.Name))
		}

		if err := v.save(ctx, d); err != nil {
			return err
		}
	}

	if len(failures) == len(v.executed) {
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, strings.Join(failures, "; "))
	}
	return nil
}

type session struct {
	conn    *connection
	opts    *bind.TransactOpts
	chainID uint64
}

// open dials the network, checks the chain id and prepares the signer
func (v *VM) open(ctx context.Context) (*session, error) {
	network := v.config.Network
	if network == nil {
		return nil, domain.ErrChainNotFound
	}

	conn, err := v.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, err
	}

	chainID, err := conn.reader.ChainID(ctx)
	if err != nil {
		conn.close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		conn.close()
		return nil, fmt.Errorf("%w: %s is configured as chain %d but RPC reports %d",
			domain.ErrNetworkMismatch, network.Name, network.ChainID, chainID.Uint64())
	}

	opts, err := v.signer(chainID)
	if err != nil {
		conn.close()
		return nil, err
	}
	opts.Context = ctx

	return &session{conn: conn, opts: opts, chainID: chainID.Uint64()}, nil
}

func (v *VM) deploy(ctx context.Context, s *session, entry *domain.DeploymentEntry, addresses map[string]common.Address, confirmations uint64) (*models.Deployment, error) {
	if entry.Contract == nil {
		return nil, fmt.Errorf("%w: %s has no contract", domain.ErrContractNotFound, entry.DeploymentName)
	}

	args, err := entry.ResolveArgs(addresses)
	if err != nil {
		return nil, err
	}

	packed, err := entry.Contract.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor args: %w", err)
	}

	addr, tx, err := s.conn.deploy(s.opts, entry.Contract.ABI, entry.Contract.Bytecode, args...)
	if err != nil {
		return nil, err
	}
	v.log.Debug("submitted deployment", "name", entry.DeploymentName, "tx", tx.Hash().Hex(), "address", addr.Hex())

	receipt, err := v.waitForConfirmations(ctx, s.conn.reader, tx.Hash(), confirmations)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr = receipt.ContractAddress
	}

	v.log.Info("deployed contract", "name", entry.DeploymentName, "address", addr.Hex(), "block", receipt.BlockNumber)

	return &models.Deployment{
		Name:            entry.DeploymentName,
		ContractName:    entry.Contract.Name,
		Address:         addr.Hex(),
		ChainID:         s.chainID,
		Tag:             v.config.Tag,
		Project:         v.config.Project,
		TransactionHash: tx.Hash().Hex(),
		BlockNumber:     blockNumber(receipt),
		ArtifactPath:    entry.Contract.ArtifactPath,
		CompilerVersion: entry.Contract.CompilerVersion,
		ConstructorArgs: hexutil.Encode(packed),
		Verification:    models.VerificationInfo{Status: models.VerificationStatusUnverified},
		CreatedAt:       v.now(),
	}, nil
}

// waitForConfirmations polls until the receipt is confirmations blocks deep.
// A receipt in the head block counts as one confirmation.
func (v *VM) waitForConfirmations(ctx context.Context, reader chainReader, hash common.Hash, confirmations uint64) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	var receipt *types.Receipt
	for {
		if receipt == nil {
			r, err := reader.TransactionReceipt(ctx, hash)
			switch {
			case err == nil:
				if r.Status != types.ReceiptStatusSuccessful {
					return nil, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, hash.Hex())
				}
				receipt = r
			case errors.Is(err, ethereum.NotFound):
			default:
				return nil, fmt.Errorf("failed to get receipt for %s: %w", hash.Hex(), err)
			}
		}

		if receipt != nil {
			head, err := reader.BlockNumber(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get block number: %w", err)
			}
			if head+1 >= blockNumber(receipt)+confirmations {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// validateOrder checks that every dependency points at an earlier entry
func validateOrder(entries []*domain.DeploymentEntry) error {
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := e.ValidateDependencies(known); err != nil {
			return err
		}
		known[e.DeploymentName] = true
	}
	return nil
}

func blockNumber(r *types.Receipt) uint64 {
	if r.BlockNumber == nil {
		return 0
	}
	return r.BlockNumber.Uint64()
}
