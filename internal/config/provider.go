package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
)

// DataDirName is the per-project state directory
const DataDirName = ".ybdeploy"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	deployFile, err := LoadDeployFile(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load deploy config: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Tag:            v.GetString("tag"),
		Project:        deployFile.Project,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non-interactive"),
		Timeout:        v.GetDuration("timeout"),
		Confirmations:  v.GetUint64("confirmations"),
		Verify:         v.GetBool("verify"),
		ArtifactsDir:   deployFile.ArtifactsDir,
		GlobalRegistry: deployFile.GlobalRegistry,
		Mock:           deployFile.Mock,
		DeployFile:     deployFile,
	}

	if cfg.Tag == "" {
		cfg.Tag = config.DefaultTag
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = deployFile.Confirmations
	}
	if !filepath.IsAbs(cfg.ArtifactsDir) {
		cfg.ArtifactsDir = filepath.Join(projectRoot, cfg.ArtifactsDir)
	}

	// Resolve network if specified
	if networkName := v.GetString("network"); networkName != "" {
		ctx := context.Background()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		network, err := NewNetworkResolver(cfg.DataDir, deployFile).Resolve(ctx, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find ybdeploy.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, DeployFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a ybdeploy project (%s not found)", DeployFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Local overrides (e.g. default network) live next to the registry
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("YBDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("tag", config.DefaultTag)
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("verify", true)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(f.Name, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.DeployFile)
}
