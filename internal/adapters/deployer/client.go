package deployer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// PrivateKeyEnv names the environment variable holding the deployer key
const PrivateKeyEnv = "PRIVATE_KEY"

// chainReader is the read side of the RPC used while waiting for receipts
type chainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type deployFunc func(opts *bind.TransactOpts, contractABI abi.ABI, bytecode []byte, args ...any) (common.Address, *types.Transaction, error)

// connection bundles an RPC session
type connection struct {
	reader chainReader
	deploy deployFunc
	close  func()
}

type dialFunc func(ctx context.Context, rpcURL string) (*connection, error)

type signerFunc func(chainID *big.Int) (*bind.TransactOpts, error)

func dialEthereum(ctx context.Context, rpcURL string) (*connection, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("no rpc_url configured")
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	return &connection{
		reader: client,
		deploy: func(opts *bind.TransactOpts, contractABI abi.ABI, bytecode []byte, args ...any) (common.Address, *types.Transaction, error) {
			addr, tx, _, err := bind.DeployContract(opts, contractABI, bytecode, client, args...)
			return addr, tx, err
		},
		close: client.Close,
	}, nil
}

// signerFromEnv builds keyed transact opts from PRIVATE_KEY
func signerFromEnv(chainID *big.Int) (*bind.TransactOpts, error) {
	raw := strings.TrimSpace(os.Getenv(PrivateKeyEnv))
	if raw == "" {
		return nil, fmt.Errorf("%s is not set", PrivateKeyEnv)
	}

	key, err := parsePrivateKey(raw)
	if err != nil {
		return nil, err
	}

	return bind.NewKeyedTransactorWithChainID(key, chainID)
}

func parsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PrivateKeyEnv, err)
	}
	return key, nil
}
