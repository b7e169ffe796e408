package domain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract is a deployable contract loaded from a compiled artifact
type Contract struct {
	Name            string
	ArtifactPath    string // e.g. "src/YieldBox.sol"
	CompilerVersion string
	ABI             abi.ABI
	Bytecode        []byte
}

// Identifier returns the "path:Name" form used by forge
func (c *Contract) Identifier() string {
	if c.ArtifactPath == "" {
		return c.Name
	}
	return c.ArtifactPath + ":" + c.Name
}

// Dependency replaces a constructor argument with the address of an earlier entry
type Dependency struct {
	ArgPosition    int
	DeploymentName string
}

// DeploymentEntry describes one contract to deploy
type DeploymentEntry struct {
	Contract       *Contract
	DeploymentName string
	Args           []any
	DependsOn      []Dependency
}

// ResolveArgs returns a copy of the constructor arguments with every dependency
// substituted by its deployed address. The entry itself is left untouched.
func (e *DeploymentEntry) ResolveArgs(addresses map[string]common.Address) ([]any, error) {
	args := make([]any, len(e.Args))
	copy(args, e.Args)

	for _, dep := range e.DependsOn {
		if err := e.checkDependency(dep); err != nil {
			return nil, err
		}
		addr, ok := addresses[dep.DeploymentName]
		if !ok {
			return nil, DependencyErr{
				Entry:       e.DeploymentName,
				Dependency:  dep.DeploymentName,
				ArgPosition: dep.ArgPosition,
				Reason:      "not deployed",
			}
		}
		args[dep.ArgPosition] = addr
	}

	return args, nil
}

// ValidateDependencies checks that every dependency points at a name in known
// and a valid argument slot.
func (e *DeploymentEntry) ValidateDependencies(known map[string]bool) error {
	for _, dep := range e.DependsOn {
		if err := e.checkDependency(dep); err != nil {
			return err
		}
		if !known[dep.DeploymentName] {
			return DependencyErr{
				Entry:       e.DeploymentName,
				Dependency:  dep.DeploymentName,
				ArgPosition: dep.ArgPosition,
				Reason:      "no earlier entry with that name",
			}
		}
	}
	return nil
}

func (e *DeploymentEntry) checkDependency(dep Dependency) error {
	if dep.ArgPosition < 0 || dep.ArgPosition >= len(e.Args) {
		return DependencyErr{
			Entry:       e.DeploymentName,
			Dependency:  dep.DeploymentName,
			ArgPosition: dep.ArgPosition,
			Reason:      "argument position out of range",
		}
	}
	if dep.DeploymentName == e.DeploymentName {
		return DependencyErr{
			Entry:       e.DeploymentName,
			Dependency:  dep.DeploymentName,
			ArgPosition: dep.ArgPosition,
			Reason:      "self reference",
		}
	}
	return nil
}
