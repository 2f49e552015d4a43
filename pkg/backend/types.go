// pkg/backend/types.go
package backend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/station-tools/stationctl/pkg/execx"
)

// Type identifies one package manager backend.
type Type string

const (
	// Apt uses the Debian/Ubuntu package manager
	Apt Type = "apt"
	// Dnf uses the Fedora package manager
	Dnf Type = "dnf"
	// Yum uses the legacy RHEL/CentOS package manager
	Yum Type = "yum"
	// Pacman uses the Arch Linux package manager
	Pacman Type = "pacman"
	// Yay uses the Arch Linux AUR helper
	Yay Type = "yay"
	// Apk uses the Alpine package manager
	Apk Type = "apk"
	// Snap uses Canonical's snap store
	Snap Type = "snap"
	// Flatpak installs applications from flathub
	Flatpak Type = "flatpak"
	// RPMFile installs a local .rpm file or an rpm URL directly
	RPMFile Type = "rpm-file"
	// Unknown is the sentinel for hosts with no supported manager
	Unknown Type = "unknown"
)

// Tool returns the binary probed for on PATH to decide whether this
// backend is usable on the host.
func (t Type) Tool() string {
	switch t {
	case Apt:
		return "apt-get"
	case RPMFile:
		return "rpm"
	case Unknown:
		return ""
	default:
		return string(t)
	}
}

// Backend is the uniform surface over one package manager. State queries
// are re-executed on every call; backends hold no cached belief about
// package state.
type Backend interface {
	// Name returns the backend type
	Name() Type

	// IsInstalled queries the local package database for ref
	IsInstalled(ctx context.Context, ref string) (bool, error)

	// IsAvailable queries the backend's repository/index for ref
	IsAvailable(ctx context.Context, ref string) (bool, error)

	// Install installs ref
	Install(ctx context.Context, ref string) error

	// Remove uninstalls ref; purge also removes configuration data
	// where the manager supports it
	Remove(ctx context.Context, ref string, purge bool) error

	// Refresh updates the package index
	Refresh(ctx context.Context) error

	// Upgrade upgrades all installed packages
	Upgrade(ctx context.Context) error

	// Cleanup runs advisory cache/orphan cleanup; callers treat
	// failures as warnings, never as operation failures
	Cleanup(ctx context.Context) error
}

// Bootstrapper is implemented by backends that need one-time host setup
// (service activation, remote registration) before any other recipe can
// run. Bootstrap is idempotent.
type Bootstrapper interface {
	Bootstrap(ctx context.Context) error
}

// ConfigOwner is implemented by backends whose manager tracks per-package
// configuration files separately from the package database. Callers
// capture the list before removal, since removal may delete the metadata.
type ConfigOwner interface {
	ConfigFiles(ctx context.Context, ref string) ([]string, error)
}

// Deps carries the collaborators shared by all backends.
type Deps struct {
	Runner execx.Runner
	Logger zerolog.Logger

	// CommandExists reports whether a tool is on PATH.
	CommandExists func(name string) bool

	// HasNetwork is the host connectivity fact; the rpm-file backend
	// consults it when the ref is a URL.
	HasNetwork bool

	// InstallPrereq installs a prerequisite package (snapd, flatpak)
	// through the host's primary backend during bootstrap.
	InstallPrereq func(ctx context.Context, pkg string) error
}

// New constructs the backend for t. Unknown or unrecognized types yield
// an UnsupportedError; no recipe ever falls through to a wrong command.
func New(t Type, deps Deps) (Backend, error) {
	switch t {
	case Apt:
		return newApt(deps), nil
	case Dnf:
		return newDnf(deps), nil
	case Yum:
		return newYum(deps), nil
	case Pacman:
		return newPacman(deps), nil
	case Yay:
		return newYay(deps), nil
	case Apk:
		return newApk(deps), nil
	case Snap:
		return newSnap(deps), nil
	case Flatpak:
		return newFlatpak(deps), nil
	case RPMFile:
		return newRPMFile(deps), nil
	default:
		return nil, &UnsupportedError{Backend: t}
	}
}
