// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/station-tools/stationctl"
)

var installCmd = &cobra.Command{
	Use:   "install [package...]",
	Short: "Install one or more packages",
	Long: `Install packages using the configured or auto-detected backend.

Examples:
  stationctl install htop
  stationctl install org.mozilla.firefox --backend=flatpak
  stationctl install nginx git curl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	mgr := newManager()

	opts := &stationctl.InstallOptions{Backend: callBackend()}

	failed := 0
	for _, pkg := range args {
		if err := mgr.Install(ctx, pkg, opts); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s: %v\n", pkg, err)
			failed++
			continue
		}
		color.New(color.FgGreen).Printf("✓ %s installed\n", pkg)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(args))
	}
	return nil
}
