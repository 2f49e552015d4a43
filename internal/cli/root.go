// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/station-tools/stationctl"
	"github.com/station-tools/stationctl/pkg/config"
	"github.com/station-tools/stationctl/pkg/execx"
	"github.com/station-tools/stationctl/pkg/logging"
	"github.com/station-tools/stationctl/pkg/platform"
)

var (
	cfgFile     string
	backendName string
	verbosity   int
	noColor     bool
	cfg         *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stationctl",
	Short: "Workstation provisioning toolkit",
	Long: `stationctl - Workstation provisioning toolkit

Detects the host's package manager (apt, dnf, yum, pacman, yay, apk) and
drives it - plus snap and flatpak - through one install/uninstall/update
interface, and lays down dotfiles.`,
	Version: "0.1.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/stationctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "package manager backend to use (apt, dnf, yum, pacman, yay, apk, snap, flatpak, rpm-file)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dotfilesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if backendName != "" {
		cfg.DefaultBackend = backendName
	}
	if noColor {
		cfg.NoColor = true
	}

	logging.Setup(verbosity, cfg.NoColor)
}

// newManager gathers the environment facts once and builds the manager.
func newManager() *stationctl.Manager {
	logger := logging.GetLogger("stationctl")
	facts := platform.Detect(logging.GetLogger("platform"), cfg.ProbeEndpoints...)
	runner := execx.NewRunner(logging.GetLogger("exec"))
	return stationctl.NewManager(facts, runner, logger)
}

// callBackend returns the per-call backend override from flags/config.
func callBackend() stationctl.BackendType {
	return stationctl.BackendType(cfg.DefaultBackend)
}
