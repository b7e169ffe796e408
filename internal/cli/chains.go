package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/yieldbox-deploy/internal/cli/render"
)

// NewChainsCmd creates the chains command
func NewChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chains",
		Aliases: []string{"networks"},
		Short:   "List configured networks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer finishRun(cmd)

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
