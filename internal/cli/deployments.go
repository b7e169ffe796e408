package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/yieldbox-deploy/internal/cli/render"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// NewDeploymentsCmd creates the deployments listing command
func NewDeploymentsCmd() *cobra.Command {
	var (
		name    string
		global  bool
		jsonOut bool
		yamlOut bool
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List deployments recorded for the current network",
		Example: `  # List local deployments on sepolia
  ybdeploy deployments -n sepolia

  # Global registry, fuzzy name filter
  ybdeploy deployments -n sepolia --global --name weth

  # Machine readable output
  ybdeploy deployments -n sepolia --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer finishRun(cmd)

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			tag, _ := cmd.Flags().GetString("tag")
			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Tag:    tag,
				Name:   name,
				Global: global,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			switch {
			case jsonOut:
				return renderer.RenderJSON(result)
			case yamlOut:
				return renderer.RenderYAML(result)
			default:
				return renderer.Render(result)
			}
		},
	}

	cmd.Flags().String("tag", "", "Deployment tag (defaults to the configured tag)")
	cmd.Flags().StringVar(&name, "name", "", "Fuzzy filter on deployment name")
	cmd.Flags().BoolVar(&global, "global", false, "Read the global registry instead of the project one")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output records as JSON")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output records as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}
