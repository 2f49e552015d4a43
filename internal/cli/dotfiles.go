// internal/cli/dotfiles.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/station-tools/stationctl/pkg/dotfiles"
	"github.com/station-tools/stationctl/pkg/logging"
)

var dotfilesSource string

var dotfilesCmd = &cobra.Command{
	Use:   "dotfiles",
	Short: "Deploy dotfiles into the home directory",
	Long: `Copy the dotfiles source tree into the home directory, backing up
any files that would be overwritten.

Examples:
  stationctl dotfiles
  stationctl dotfiles --source ~/src/dotfiles`,
	Args: cobra.NoArgs,
	RunE: runDotfiles,
}

func init() {
	dotfilesCmd.Flags().StringVar(&dotfilesSource, "source", "", "dotfiles source directory (default from config)")
}

func runDotfiles(cmd *cobra.Command, args []string) error {
	source := dotfilesSource
	if source == "" {
		source = cfg.DotfilesDir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	deployer := dotfiles.New(source, home, logging.GetLogger("dotfiles"))
	res, err := deployer.Deploy()
	if err != nil {
		return err
	}

	fmt.Printf("Deployed %d files (%d unchanged, %d backed up)\n",
		len(res.Copied), len(res.Skipped), len(res.BackedUp))
	return nil
}
