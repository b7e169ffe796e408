package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

// DeployFileName is the project file searched for when locating the project root
const DeployFileName = "ybdeploy.toml"

// LoadDeployFile loads and parses ybdeploy.toml, expanding environment references
func LoadDeployFile(projectRoot string) (*config.DeployFile, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.DeployFile{}
	path := filepath.Join(projectRoot, DeployFileName)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", DeployFileName, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", DeployFileName, err)
	}

	applyDeployFileDefaults(cfg, projectRoot)

	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.WETH = os.ExpandEnv(network.WETH)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
		network.ExplorerAPIKey = os.ExpandEnv(network.ExplorerAPIKey)
		cfg.Networks[name] = network
	}

	return cfg, nil
}

// loadEnvFiles loads .env files for variable expansion. Existing variables win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func applyDeployFileDefaults(cfg *config.DeployFile, projectRoot string) {
	if cfg.Project == "" {
		cfg.Project = filepath.Base(projectRoot)
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = config.DefaultArtifactsDir
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = config.DefaultConfirmations
	}
	if cfg.GlobalRegistry == "" {
		cfg.GlobalRegistry = filepath.Join("~", ".ybdeploy", "global.json")
	}
	cfg.GlobalRegistry = expandHome(os.ExpandEnv(cfg.GlobalRegistry))
	cfg.Mock = cfg.Mock.WithDefaults()
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
