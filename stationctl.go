// stationctl.go
package stationctl

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/station-tools/stationctl/pkg/backend"
	"github.com/station-tools/stationctl/pkg/execx"
	"github.com/station-tools/stationctl/pkg/platform"
)

// Re-export backend types for convenience
type BackendType = backend.Type

// Re-export backend constants
const (
	BackendApt     = backend.Apt
	BackendDnf     = backend.Dnf
	BackendYum     = backend.Yum
	BackendPacman  = backend.Pacman
	BackendYay     = backend.Yay
	BackendApk     = backend.Apk
	BackendSnap    = backend.Snap
	BackendFlatpak = backend.Flatpak
	BackendRPMFile = backend.RPMFile
	BackendUnknown = backend.Unknown
)

// universalBackends are refreshed best-effort by Update when their tools
// are present, on top of whatever the primary OS backend is.
var universalBackends = []backend.Type{backend.Snap, backend.Flatpak}

// Manager sequences package operations over the host's package managers.
// Every call re-probes package state; the Manager holds no cached belief
// about the host between calls.
type Manager struct {
	facts  *platform.Facts
	runner execx.Runner
	logger zerolog.Logger

	// removePath is swappable for tests of best-effort purge cleanup.
	removePath func(path string) error
}

// NewManager creates a manager from the environment facts, a command
// runner and a logger.
func NewManager(facts *platform.Facts, runner execx.Runner, logger zerolog.Logger) *Manager {
	return &Manager{
		facts:      facts,
		runner:     runner,
		logger:     logger,
		removePath: os.RemoveAll,
	}
}

// InstallOptions configures a single install call.
type InstallOptions struct {
	// Backend overrides the detected default.
	Backend backend.Type
}

// UninstallOptions configures a single uninstall call.
type UninstallOptions struct {
	// Backend overrides the detected default.
	Backend backend.Type

	// Purge also deletes the package's configuration data.
	Purge bool
}

func (m *Manager) deps() backend.Deps {
	return backend.Deps{
		Runner:        m.runner,
		Logger:        m.logger,
		CommandExists: m.facts.CommandExists,
		HasNetwork:    m.facts.HasNetwork,
		InstallPrereq: m.installPrereq,
	}
}

// resolve picks the backend for a call: the explicit override when given,
// otherwise the detected default.
func (m *Manager) resolve(t backend.Type) (backend.Backend, error) {
	if t == "" {
		t = m.facts.Default
	}
	return backend.New(t, m.deps())
}

// installPrereq installs a bootstrap prerequisite (snapd, flatpak)
// through the host's primary backend.
func (m *Manager) installPrereq(ctx context.Context, pkg string) error {
	primary, err := backend.New(m.facts.Default, m.deps())
	if err != nil {
		return err
	}
	installed, err := primary.IsInstalled(ctx, pkg)
	if err == nil && installed {
		return nil
	}
	return primary.Install(ctx, pkg)
}

// probeInstalled wraps the installed-state query with the conservative
// unknown-means-not-installed rule: a failed probe biases toward
// attempting the operation rather than silently skipping it. Bootstrap
// failures are not probe noise and propagate.
func (m *Manager) probeInstalled(ctx context.Context, b backend.Backend, ref string) (bool, error) {
	installed, err := b.IsInstalled(ctx, ref)
	if err != nil {
		if errors.Is(err, backend.ErrBootstrap) {
			return false, err
		}
		m.logger.Warn().
			Str("backend", string(b.Name())).
			Str("package", ref).
			Err(err).
			Msg("installed-state probe failed, assuming not installed")
		return false, nil
	}
	return installed, nil
}

// Install installs ref. Already-installed packages are an idempotent
// no-op that issues no mutating command.
func (m *Manager) Install(ctx context.Context, ref string, opts *InstallOptions) error {
	if opts == nil {
		opts = &InstallOptions{}
	}

	if !m.facts.HasRoot {
		return &Error{Op: "install", Package: ref, Err: ErrRootRequired}
	}
	if !m.facts.HasNetwork {
		return &Error{Op: "install", Package: ref, Err: ErrNetworkRequired}
	}

	b, err := m.resolve(opts.Backend)
	if err != nil {
		return &Error{Op: "install", Package: ref, Err: err}
	}

	installed, err := m.probeInstalled(ctx, b, ref)
	if err != nil {
		return &Error{Op: "install", Backend: b.Name(), Package: ref, Err: err}
	}
	if installed {
		m.logger.Debug().Str("backend", string(b.Name())).Str("package", ref).Msg("already installed")
		return nil
	}

	available, err := b.IsAvailable(ctx, ref)
	if err != nil {
		return &Error{Op: "install", Backend: b.Name(), Package: ref, Err: err}
	}
	if !available {
		return &Error{Op: "install", Backend: b.Name(), Package: ref, Err: ErrPackageNotFound}
	}

	if err := b.Install(ctx, ref); err != nil {
		return &Error{Op: "install", Backend: b.Name(), Package: ref, Err: err}
	}

	m.logger.Info().Str("backend", string(b.Name())).Str("package", ref).Msg("installed")
	return nil
}

// Uninstall removes ref. Not-installed packages are an idempotent no-op.
// With Purge, config paths captured before removal are deleted
// best-effort after the removal succeeds; cleanup failures never fail the
// operation.
func (m *Manager) Uninstall(ctx context.Context, ref string, opts *UninstallOptions) error {
	if opts == nil {
		opts = &UninstallOptions{}
	}

	if !m.facts.HasRoot {
		return &Error{Op: "uninstall", Package: ref, Err: ErrRootRequired}
	}

	b, err := m.resolve(opts.Backend)
	if err != nil {
		return &Error{Op: "uninstall", Package: ref, Err: err}
	}

	installed, err := m.probeInstalled(ctx, b, ref)
	if err != nil {
		return &Error{Op: "uninstall", Backend: b.Name(), Package: ref, Err: err}
	}
	if !installed {
		m.logger.Debug().Str("backend", string(b.Name())).Str("package", ref).Msg("not installed")
		return nil
	}

	// Capture config paths strictly before removal: the manager may
	// drop the file-list metadata together with the package.
	var configPaths []string
	if opts.Purge {
		if owner, ok := b.(backend.ConfigOwner); ok {
			configPaths, err = owner.ConfigFiles(ctx, ref)
			if err != nil {
				m.logger.Warn().
					Str("backend", string(b.Name())).
					Str("package", ref).
					Err(err).
					Msg("could not capture config file list")
				configPaths = nil
			}
		}
	}

	if err := b.Remove(ctx, ref, opts.Purge); err != nil {
		// Removal failed: do not touch the captured config paths.
		return &Error{Op: "uninstall", Backend: b.Name(), Package: ref, Err: err}
	}

	for _, path := range configPaths {
		if err := m.removePath(path); err != nil {
			m.logger.Warn().Str("path", path).Err(err).Msg("could not delete config path")
		}
	}

	if err := b.Cleanup(ctx); err != nil {
		m.logger.Warn().Str("backend", string(b.Name())).Err(err).Msg("post-removal cleanup failed")
	}

	m.logger.Info().Str("backend", string(b.Name())).Str("package", ref).Bool("purge", opts.Purge).Msg("uninstalled")
	return nil
}

// Update refreshes and upgrades the primary OS backend, then refreshes
// snap and flatpak best-effort when their tools are present. The primary
// backend always comes from the environment facts.
func (m *Manager) Update(ctx context.Context) error {
	if !m.facts.HasRoot {
		return &Error{Op: "update", Err: ErrRootRequired}
	}
	if !m.facts.HasNetwork {
		return &Error{Op: "update", Err: ErrNetworkRequired}
	}

	primary, err := backend.New(m.facts.Default, m.deps())
	if err != nil {
		return &Error{Op: "update", Err: err}
	}

	if err := primary.Refresh(ctx); err != nil {
		return &Error{Op: "update", Backend: primary.Name(), Err: err}
	}
	if err := primary.Upgrade(ctx); err != nil {
		return &Error{Op: "update", Backend: primary.Name(), Err: err}
	}
	if err := primary.Cleanup(ctx); err != nil {
		m.logger.Warn().Str("backend", string(primary.Name())).Err(err).Msg("post-upgrade cleanup failed")
	}

	for _, t := range universalBackends {
		if t == primary.Name() || !m.facts.CommandExists(t.Tool()) {
			continue
		}
		ub, err := backend.New(t, m.deps())
		if err != nil {
			continue
		}
		if err := ub.Upgrade(ctx); err != nil {
			m.logger.Warn().Str("backend", string(t)).Err(err).Msg("secondary backend update failed")
			continue
		}
		m.logger.Info().Str("backend", string(t)).Msg("secondary backend updated")
	}

	m.logger.Info().Str("backend", string(primary.Name())).Msg("system updated")
	return nil
}

// Facts returns the environment facts the manager was built with.
func (m *Manager) Facts() *platform.Facts {
	return m.facts
}
