package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Release builds stamp these with
// -ldflags "-X github.com/trebuchet-org/yieldbox-deploy/internal/cli.Version=v0.1.0 -X ...cli.Commit=<sha>"
var (
	Version = "dev"
	Commit  = ""
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ybdeploy version and build commit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), formatVersion(buildVersion()))
		},
	}
}

// buildVersion falls back to module and vcs data for `go install` builds
func buildVersion() (version, commit string) {
	version, commit = Version, Commit
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if commit == "" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				commit = s.Value
			}
		}
	}
	return version, commit
}

func formatVersion(version, commit string) string {
	if commit == "" {
		return "ybdeploy version " + version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("ybdeploy version %s (%s)", version, commit)
}
