// internal/cli/status.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show detected environment facts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	facts := newManager().Facts()

	fmt.Printf("OS:        %s/%s\n", facts.OS, facts.Arch)
	fmt.Printf("Root:      %t\n", facts.HasRoot)
	fmt.Printf("Network:   %t\n", facts.HasNetwork)
	fmt.Printf("Backend:   %s\n", facts.Default)
	fmt.Printf("Snap:      %t\n", facts.CommandExists("snap"))
	fmt.Printf("Flatpak:   %t\n", facts.CommandExists("flatpak"))
	return nil
}
