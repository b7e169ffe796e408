package models

import (
	"encoding/json"
)

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap,omitempty"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

// UnmarshalJSON accepts both the Foundry object form and a bare hex string
// as emitted by hardhat style artifacts.
func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		b.Object = hex
		return nil
	}

	type plain BytecodeObject
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = BytecodeObject(obj)
	return nil
}

// HasLinkReferences reports whether the bytecode needs library linking
func (b BytecodeObject) HasLinkReferences() bool {
	return len(b.LinkReferences) > 0
}

// Artifact represents a compilation artifact
type Artifact struct {
	ContractName string           `json:"contractName,omitempty"`
	SourceName   string           `json:"sourceName,omitempty"`
	ABI          json.RawMessage  `json:"abi"`
	Bytecode     BytecodeObject   `json:"bytecode"`
	Metadata     ArtifactMetadata `json:"metadata"`
}

// ArtifactMetadata represents the metadata section of a Foundry artifact
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string `json:"language"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// Target returns the source path and contract name the artifact was compiled for
func (a *Artifact) Target() (source, name string) {
	for s, n := range a.Metadata.Settings.CompilationTarget {
		return s, n
	}
	return a.SourceName, a.ContractName
}
