package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

const DeploymentsFile = "deployments.json"

// localRegistry is tag -> chainID -> records
type localRegistry map[string]map[uint64][]*models.Deployment

// globalRegistry is tag -> project -> chainID -> records
type globalRegistry map[string]map[string]map[uint64][]*models.Deployment

// FileRepository stores deployments in two json files: one owned by the
// project and one shared by every project on the machine
type FileRepository struct {
	localPath  string
	globalPath string
	mu         sync.Mutex
	now        func() time.Time
}

var _ usecase.DeploymentRegistry = (*FileRepository)(nil)

// NewFileRepository creates a repository backed by the given files. Files are
// created on first save.
func NewFileRepository(localPath, globalPath string) *FileRepository {
	return &FileRepository{
		localPath:  localPath,
		globalPath: globalPath,
		now:        time.Now,
	}
}

// NewFileRepositoryFromConfig wires the repository from runtime config
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) (*FileRepository, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory not configured")
	}
	globalPath := cfg.GlobalRegistry
	if globalPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate global registry: %w", err)
		}
		globalPath = filepath.Join(home, ".ybdeploy", "global.json")
	}
	return NewFileRepository(filepath.Join(cfg.DataDir, DeploymentsFile), globalPath), nil
}

// LoadLocalDeployment returns the project records for tag and chain
func (r *FileRepository) LoadLocalDeployment(ctx context.Context, tag string, chainID uint64) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reg localRegistry
	if err := loadFile(r.localPath, &reg); err != nil {
		return nil, fmt.Errorf("failed to load local registry: %w", err)
	}
	return cloneAll(reg[tag][chainID]), nil
}

// LoadGlobalDeployment returns the shared records for tag, project and chain
func (r *FileRepository) LoadGlobalDeployment(ctx context.Context, tag, project string, chainID uint64) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reg globalRegistry
	if err := loadFile(r.globalPath, &reg); err != nil {
		return nil, fmt.Errorf("failed to load global registry: %w", err)
	}
	return cloneAll(reg[tag][project][chainID]), nil
}

// SaveLocalDeployment upserts the record by name under its tag and chain
func (r *FileRepository) SaveLocalDeployment(ctx context.Context, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := localRegistry{}
	if err := loadFile(r.localPath, &reg); err != nil {
		return fmt.Errorf("failed to load local registry: %w", err)
	}

	d := r.prepare(deployment)
	if reg[d.Tag] == nil {
		reg[d.Tag] = make(map[uint64][]*models.Deployment)
	}
	reg[d.Tag][d.ChainID] = upsert(reg[d.Tag][d.ChainID], d)

	if err := saveFile(r.localPath, reg); err != nil {
		return fmt.Errorf("failed to save local registry: %w", err)
	}
	return nil
}

// SaveGlobalDeployment upserts the record by name under its tag, project and chain
func (r *FileRepository) SaveGlobalDeployment(ctx context.Context, project string, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := globalRegistry{}
	if err := loadFile(r.globalPath, &reg); err != nil {
		return fmt.Errorf("failed to load global registry: %w", err)
	}

	d := r.prepare(deployment)
	d.Project = project
	if reg[d.Tag] == nil {
		reg[d.Tag] = make(map[string]map[uint64][]*models.Deployment)
	}
	if reg[d.Tag][project] == nil {
		reg[d.Tag][project] = make(map[uint64][]*models.Deployment)
	}
	reg[d.Tag][project][d.ChainID] = upsert(reg[d.Tag][project][d.ChainID], d)

	if err := saveFile(r.globalPath, reg); err != nil {
		return fmt.Errorf("failed to save global registry: %w", err)
	}
	return nil
}

func (r *FileRepository) prepare(deployment *models.Deployment) *models.Deployment {
	d := deployment.Clone()
	if d.Tag == "" {
		d.Tag = config.DefaultTag
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = r.now()
	}
	if d.Verification.Status == "" {
		d.Verification.Status = models.VerificationStatusUnverified
	}
	return d
}

// upsert replaces the record with the same name or appends it
func upsert(records []*models.Deployment, d *models.Deployment) []*models.Deployment {
	idx := slices.IndexFunc(records, func(existing *models.Deployment) bool {
		return existing.Name == d.Name
	})
	if idx >= 0 {
		records[idx] = d
		return records
	}
	return append(records, d)
}

func cloneAll(records []*models.Deployment) []*models.Deployment {
	out := make([]*models.Deployment, 0, len(records))
	for _, d := range records {
		out = append(out, d.Clone())
	}
	return out
}

// loadFile decodes path into v. A missing file leaves v untouched.
func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// saveFile writes v as indented json through a temp file and rename
func saveFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
