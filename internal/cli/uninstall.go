// internal/cli/uninstall.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/station-tools/stationctl"
)

var uninstallPurge bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [package...]",
	Short: "Uninstall one or more packages",
	Long: `Uninstall packages using the configured or auto-detected backend.

With --purge the package's configuration data is deleted as well.

Examples:
  stationctl uninstall htop
  stationctl uninstall nginx --purge`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "also delete configuration data")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	mgr := newManager()

	opts := &stationctl.UninstallOptions{
		Backend: callBackend(),
		Purge:   uninstallPurge,
	}

	failed := 0
	for _, pkg := range args {
		if err := mgr.Uninstall(ctx, pkg, opts); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s: %v\n", pkg, err)
			failed++
			continue
		}
		color.New(color.FgGreen).Printf("✓ %s uninstalled\n", pkg)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(args))
	}
	return nil
}
