package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/yieldbox-deploy/internal/adapters/progress"
	"github.com/trebuchet-org/yieldbox-deploy/internal/app"
	"github.com/trebuchet-org/yieldbox-deploy/internal/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cleanupKey is the context key for the per-run release func
	cleanupKey contextKey = "cleanup"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ybdeploy",
		Short: "YieldBox deployment orchestrator",
		Long: `ybdeploy deploys the YieldBox contract system (YieldBoxURIBuilder + YieldBox)
from compiled Foundry artifacts, resolving the wrapped native token for the
selected network and recording every deployment in the project registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var spinner *progress.SpinnerSink
			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("non-interactive") && !v.GetBool("debug") {
				spinner = progress.NewSpinnerSink()
				sink = spinner
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cancel := context.CancelFunc(func() {})
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cleanup := func() {
				if spinner != nil {
					spinner.Stop()
				}
				cancel()
			}
			cmd.SetContext(context.WithValue(ctx, cleanupKey, cleanup))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			finishRun(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (a [networks] entry in ybdeploy.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deploysCmd := NewDeploysCmd()
	deploysCmd.GroupID = "main"
	rootCmd.AddCommand(deploysCmd)

	// The same task is available without the scope
	flatCmd := NewDeployYieldBoxCmd("deployYieldBox")
	flatCmd.GroupID = "main"
	rootCmd.AddCommand(flatCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "management"
	rootCmd.AddCommand(deploymentsCmd)

	chainsCmd := NewChainsCmd()
	chainsCmd.GroupID = "management"
	rootCmd.AddCommand(chainsCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// needsApp reports whether the command runs a use case
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return false
	}
	return cmd.Runnable()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// finishRun halts the spinner and releases the run timeout. RunE defers it
// because PersistentPostRun does not run when RunE fails. Safe to call twice.
func finishRun(cmd *cobra.Command) {
	if cmd.Context() == nil {
		return
	}
	if cleanup, ok := cmd.Context().Value(cleanupKey).(func()); ok {
		cleanup()
	}
}
