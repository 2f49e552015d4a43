// pkg/platform/facts.go
package platform

import (
	"net"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/station-tools/stationctl/pkg/backend"
)

// defaultProbeEndpoints are the public endpoints tried in sequence by the
// network probe; first success wins.
var defaultProbeEndpoints = []string{"1.1.1.1:53", "8.8.8.8:53"}

// probeTimeout bounds each individual reachability probe. It is the only
// timeout in the system; mutating package-manager commands run unbounded.
const probeTimeout = 3 * time.Second

// detectionOrder is the fixed priority order in which backends are probed
// for on PATH.
var detectionOrder = []backend.Type{
	backend.Apt,
	backend.Dnf,
	backend.Yum,
	backend.Pacman,
	backend.Yay,
	backend.Apk,
}

// Facts holds the environment facts gathered once at process start.
// They are treated as immutable for the run.
type Facts struct {
	OS         string
	Arch       string
	HasRoot    bool
	HasNetwork bool
	Default    backend.Type

	// CommandExists reports whether a tool is on PATH. Part of the
	// facts surface so the orchestrator can be tested with injected
	// lookups.
	CommandExists func(name string) bool
}

// Detect gathers the environment facts. Passing no endpoints uses the
// default public probe targets.
func Detect(logger zerolog.Logger, endpoints ...string) *Facts {
	if len(endpoints) == 0 {
		endpoints = defaultProbeEndpoints
	}

	f := &Facts{
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		HasRoot:       os.Geteuid() == 0,
		CommandExists: CommandExists,
	}
	f.HasNetwork = probeNetwork(logger, net.DialTimeout, endpoints)
	f.Default = detectBackend(logger, f.CommandExists)

	logger.Debug().
		Str("os", f.OS).
		Str("arch", f.Arch).
		Bool("root", f.HasRoot).
		Bool("network", f.HasNetwork).
		Str("backend", string(f.Default)).
		Msg("environment facts gathered")

	return f
}

// CommandExists reports whether a command is available on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type dialFunc func(network, addr string, timeout time.Duration) (net.Conn, error)

func probeNetwork(logger zerolog.Logger, dial dialFunc, endpoints []string) bool {
	for _, ep := range endpoints {
		conn, err := dial("tcp", ep, probeTimeout)
		if err == nil {
			_ = conn.Close()
			return true
		}
		logger.Debug().Str("endpoint", ep).Err(err).Msg("reachability probe failed")
	}
	logger.Warn().Msg("no network connectivity detected")
	return false
}

func detectBackend(logger zerolog.Logger, exists func(string) bool) backend.Type {
	for _, t := range detectionOrder {
		if exists(t.Tool()) {
			return t
		}
	}
	logger.Warn().Msg("no supported package manager found on PATH")
	return backend.Unknown
}
