package domain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentEntryResolveArgs(t *testing.T) {
	weth := common.HexToAddress("0x1111111111111111111111111111111111111111")
	uri := common.HexToAddress("0x2222222222222222222222222222222222222222")

	entry := &DeploymentEntry{
		DeploymentName: "YieldBox",
		Args:           []any{weth, common.Address{}},
		DependsOn:      []Dependency{{ArgPosition: 1, DeploymentName: "YieldBoxURIBuilder"}},
	}

	t.Run("substitutes dependency address", func(t *testing.T) {
		args, err := entry.ResolveArgs(map[string]common.Address{"YieldBoxURIBuilder": uri})
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.Equal(t, weth, args[0])
		assert.Equal(t, uri, args[1])
		// original args are not mutated
		assert.Equal(t, common.Address{}, entry.Args[1])
	})

	t.Run("missing dependency", func(t *testing.T) {
		_, err := entry.ResolveArgs(map[string]common.Address{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnresolvedDependency))

		var depErr DependencyErr
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, "YieldBoxURIBuilder", depErr.Dependency)
		assert.Equal(t, 1, depErr.ArgPosition)
	})

	t.Run("argument position out of range", func(t *testing.T) {
		bad := &DeploymentEntry{
			DeploymentName: "YieldBox",
			Args:           []any{weth},
			DependsOn:      []Dependency{{ArgPosition: 3, DeploymentName: "YieldBoxURIBuilder"}},
		}
		_, err := bad.ResolveArgs(map[string]common.Address{"YieldBoxURIBuilder": uri})
		assert.ErrorIs(t, err, ErrUnresolvedDependency)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("no dependencies", func(t *testing.T) {
		plain := &DeploymentEntry{DeploymentName: "YieldBoxURIBuilder"}
		args, err := plain.ResolveArgs(nil)
		require.NoError(t, err)
		assert.Empty(t, args)
	})
}

func TestDeploymentEntryValidateDependencies(t *testing.T) {
	entry := &DeploymentEntry{
		DeploymentName: "YieldBox",
		Args:           []any{common.Address{}, common.Address{}},
		DependsOn:      []Dependency{{ArgPosition: 1, DeploymentName: "YieldBoxURIBuilder"}},
	}

	assert.NoError(t, entry.ValidateDependencies(map[string]bool{"YieldBoxURIBuilder": true}))
	assert.ErrorIs(t, entry.ValidateDependencies(map[string]bool{}), ErrUnresolvedDependency)

	self := &DeploymentEntry{
		DeploymentName: "YieldBox",
		Args:           []any{common.Address{}},
		DependsOn:      []Dependency{{ArgPosition: 0, DeploymentName: "YieldBox"}},
	}
	assert.ErrorIs(t, self.ValidateDependencies(map[string]bool{"YieldBox": true}), ErrUnresolvedDependency)
}

func TestContractIdentifier(t *testing.T) {
	assert.Equal(t, "src/YieldBox.sol:YieldBox", (&Contract{Name: "YieldBox", ArtifactPath: "src/YieldBox.sol"}).Identifier())
	assert.Equal(t, "YieldBox", (&Contract{Name: "YieldBox"}).Identifier())
}
