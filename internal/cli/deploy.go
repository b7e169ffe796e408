package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/yieldbox-deploy/internal/cli/render"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// NewDeploysCmd creates the deploys scope holding deployment tasks
func NewDeploysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploys",
		Short: "Deployment tasks",
		Long:  "Deployment tasks grouped under the deploys scope.",
	}

	cmd.AddCommand(NewDeployYieldBoxCmd("yieldBox"))

	return cmd
}

// NewDeployYieldBoxCmd creates the YieldBox deployment task under the given name
func NewDeployYieldBoxCmd(use string) *cobra.Command {
	var (
		confirmations uint64
		verify        bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: "Deploy YieldBoxURIBuilder and YieldBox",
		Long: `Deploy YieldBoxURIBuilder and YieldBox on the selected network.

The wrapped native token is taken from the global registry, then the local
registry, then the network configuration. On test networks a mock token is
deployed when none is found.`,
		Example: `  # Deploy to sepolia, deploying a mock WETH if needed
  ybdeploy deploys yieldBox --network sepolia

  # Same task without the scope, with 6 confirmations and no verification
  ybdeploy deployYieldBox -n mainnet --confirmations 6 --verify=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer finishRun(cmd)

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployYieldBox.Run(cmd.Context(), usecase.DeployYieldBoxParams{
				Confirmations: confirmations,
				SkipVerify:    !verify,
			})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().String("tag", config.DefaultTag, "Deployment tag (registry namespace)")
	cmd.Flags().Uint64Var(&confirmations, "confirmations", 0, "Blocks to wait after each deployment (default from ybdeploy.toml)")
	cmd.Flags().BoolVar(&verify, "verify", true, "Verify contracts on the block explorer")

	return cmd
}
