package models

import (
	"strings"
	"time"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// Deployment represents a contract deployment record as stored in the registries
type Deployment struct {
	// Core identification
	Name         string `json:"name" yaml:"name"`                 // e.g., "YieldBox", "WETHMock"
	ContractName string `json:"contractName" yaml:"contractName"` // e.g., "ERC20Mock"
	Address      string `json:"address" yaml:"address"`
	ChainID      uint64 `json:"chainId" yaml:"chainId"`
	Tag          string `json:"tag" yaml:"tag"`
	Project      string `json:"project,omitempty" yaml:"project,omitempty"`

	// Transaction information
	TransactionHash string `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	BlockNumber     uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`

	// Artifact information
	ArtifactPath    string `json:"artifactPath,omitempty" yaml:"artifactPath,omitempty"` // e.g., "src/YieldBox.sol"
	CompilerVersion string `json:"compilerVersion,omitempty" yaml:"compilerVersion,omitempty"`
	ConstructorArgs string `json:"constructorArgs,omitempty" yaml:"constructorArgs,omitempty"` // Hex encoded

	Verification VerificationInfo `json:"verification" yaml:"verification"`

	Meta      map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status VerificationStatus `json:"status" yaml:"status"`
	URL    string             `json:"url,omitempty" yaml:"url,omitempty"`
	Reason string             `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// HasNamePrefix reports whether the deployment name starts with prefix
func (d *Deployment) HasNamePrefix(prefix string) bool {
	return strings.HasPrefix(d.Name, prefix)
}

// Contract returns the artifact identifier in "path:Name" form
func (d *Deployment) Contract() string {
	name := d.ContractName
	if name == "" {
		name = d.Name
	}
	if d.ArtifactPath == "" {
		return name
	}
	return d.ArtifactPath + ":" + name
}

// Clone returns a copy that can be mutated without affecting the original
func (d *Deployment) Clone() *Deployment {
	clone := *d
	if d.Meta != nil {
		clone.Meta = make(map[string]any, len(d.Meta))
		for k, v := range d.Meta {
			clone.Meta[k] = v
		}
	}
	return &clone
}
