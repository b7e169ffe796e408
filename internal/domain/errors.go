package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrChainNotFound is returned when the selected network has no configuration
	ErrChainNotFound = errors.New("chain not found")

	// ErrWETHNotFound is returned when no wrapped native token can be resolved for a chain
	ErrWETHNotFound = errors.New("WETH not found")

	// ErrContractNotFound is returned when a contract artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrUnresolvedDependency is returned when an entry depends on a deployment that is not known yet
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNothingToExecute is returned when the deployer has no queued entries
	ErrNothingToExecute = errors.New("nothing to execute")

	// ErrTransactionReverted is returned when a deployment transaction reverted
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrBroadcastCancelled is returned when the user declines a broadcast
	ErrBroadcastCancelled = errors.New("broadcast cancelled")
)

// DependencyErr describes a dependency reference that cannot be satisfied.
type DependencyErr struct {
	Entry       string
	Dependency  string
	ArgPosition int
	Reason      string
}

func (e DependencyErr) Error() string {
	return fmt.Sprintf("%s: %s depends on %s at arg %d: %s",
		ErrUnresolvedDependency, e.Entry, e.Dependency, e.ArgPosition, e.Reason)
}

func (e DependencyErr) Unwrap() error {
	return ErrUnresolvedDependency
}

type AmbiguousArtifactErr struct {
	Name    string
	Matches []string
}

func (e AmbiguousArtifactErr) Error() string {
	return fmt.Sprintf("multiple artifacts found for contract %s: %v", e.Name, e.Matches)
}
