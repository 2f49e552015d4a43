// internal/cli/update.go
package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh and upgrade all packages",
	Long: `Refresh the package index and upgrade everything through the host's
primary package manager. If snap or flatpak are present they are updated
too, best-effort.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	mgr := newManager()

	if err := mgr.Update(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ update failed: %v\n", err)
		return err
	}

	color.New(color.FgGreen).Println("✓ system updated")
	return nil
}
