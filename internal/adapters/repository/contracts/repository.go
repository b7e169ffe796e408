package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// Repository loads contract factories from compiled Foundry artifacts
type Repository struct {
	artifactsDir string
	log          *slog.Logger
	mu           sync.RWMutex
	contracts    map[string]*domain.Contract   // key: "path:contractName"
	names        map[string][]*domain.Contract // key: contract name
	indexed      bool
}

var _ usecase.ContractFactory = (*Repository)(nil)

// NewRepository creates a repository reading artifacts under artifactsDir
func NewRepository(artifactsDir string, log *slog.Logger) *Repository {
	return &Repository{
		artifactsDir: artifactsDir,
		log:          log,
		contracts:    make(map[string]*domain.Contract),
		names:        make(map[string][]*domain.Contract),
	}
}

// NewRepositoryFromConfig wires the repository from runtime config
func NewRepositoryFromConfig(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	dir := cfg.ArtifactsDir
	if dir == "" {
		dir = filepath.Join(cfg.ProjectRoot, config.DefaultArtifactsDir)
	}
	return NewRepository(dir, log)
}

// GetContractFactory returns the deployable contract for key, which is either
// a bare contract name or "path:Name".
func (r *Repository) GetContractFactory(ctx context.Context, key string) (*domain.Contract, error) {
	if path, name, ok := strings.Cut(key, ":"); ok {
		return r.byIdentifier(path, name)
	}

	if c, err := r.loadConventional(key); err == nil {
		return c, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := r.index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.names[key]
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (looked in %s)", domain.ErrContractNotFound, key, r.artifactsDir)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, c := range matches {
			ids = append(ids, c.Identifier())
		}
		sort.Strings(ids)
		return nil, domain.AmbiguousArtifactErr{Name: key, Matches: ids}
	}
}

func (r *Repository) byIdentifier(path, name string) (*domain.Contract, error) {
	if err := r.index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.contracts[path+":"+name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s:%s", domain.ErrContractNotFound, path, name)
}

// loadConventional tries out/<Name>.sol/<Name>.json before walking the tree
func (r *Repository) loadConventional(name string) (*domain.Contract, error) {
	r.mu.RLock()
	if matches := r.names[name]; r.indexed && len(matches) == 1 {
		r.mu.RUnlock()
		return matches[0], nil
	}
	r.mu.RUnlock()

	path := filepath.Join(r.artifactsDir, name+".sol", name+".json")
	c, err := r.readArtifact(path)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Name != name {
		return nil, os.ErrNotExist
	}
	return c, nil
}

// index walks the artifacts directory once
func (r *Repository) index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if _, err := os.Stat(r.artifactsDir); os.IsNotExist(err) {
		return fmt.Errorf("%w: artifacts directory %s does not exist, run forge build", domain.ErrContractNotFound, r.artifactsDir)
	}

	err := filepath.Walk(r.artifactsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		c, err := r.readArtifact(path)
		if err != nil {
			r.log.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}
		if c == nil {
			return nil
		}

		key := c.Identifier()
		if _, exists := r.contracts[key]; exists {
			return nil
		}
		r.contracts[key] = c
		r.names[c.Name] = append(r.names[c.Name], c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "dir", r.artifactsDir, "contracts", len(r.contracts))
	return nil
}

// readArtifact parses one artifact file. It returns nil for artifacts without
// creation bytecode (interfaces, abstract contracts).
func (r *Repository) readArtifact(path string) (*domain.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}

	if artifact.Bytecode.Object == "" || artifact.Bytecode.Object == "0x" {
		return nil, nil
	}
	if artifact.Bytecode.HasLinkReferences() {
		return nil, fmt.Errorf("artifact %s requires library linking", path)
	}

	source, name := artifact.Target()
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	bytecode, err := hexutil.Decode(ensure0x(artifact.Bytecode.Object))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi in %s: %w", path, err)
	}

	return &domain.Contract{
		Name:            name,
		ArtifactPath:    source,
		CompilerVersion: artifact.Metadata.Compiler.Version,
		ABI:             parsed,
		Bytecode:        bytecode,
	}, nil
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
