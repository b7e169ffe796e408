package app

import (
	"log/slog"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	DeployYieldBox  *usecase.DeployYieldBox
	ListDeployments *usecase.ListDeployments
	ListNetworks    *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	deployYieldBox *usecase.DeployYieldBox,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		DeployYieldBox:  deployYieldBox,
		ListDeployments: listDeployments,
		ListNetworks:    listNetworks,
	}
}
