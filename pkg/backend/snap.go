// pkg/backend/snap.go
package backend

import (
	"context"
	"os"
)

const (
	snapMountDir = "/snap"
	snapdDataDir = "/var/lib/snapd/snap"
)

// snapBackend drives Canonical's snap store. snapd has to be installed
// and its socket activated before any snap command works, so every state
// query and install runs the bootstrap first.
type snapBackend struct {
	deps Deps
}

func newSnap(deps Deps) Backend {
	return &snapBackend{deps: deps}
}

func (b *snapBackend) Name() Type {
	return Snap
}

// Bootstrap installs snapd through the host's primary backend when the
// snap tool is missing, activates the snapd socket, and creates the /snap
// mount symlink on distributions that ship snapd without it. Safe to
// re-run.
func (b *snapBackend) Bootstrap(ctx context.Context) error {
	if !b.deps.CommandExists("snap") {
		if b.deps.InstallPrereq == nil {
			return bootstrapErrorf("snap tool missing and no installer for snapd")
		}
		b.deps.Logger.Info().Msg("snap tool missing, installing snapd")
		if err := b.deps.InstallPrereq(ctx, "snapd"); err != nil {
			return bootstrapErrorf("installing snapd: %v", err)
		}
	}

	res, err := b.deps.Runner.Run(ctx, "systemctl", "enable", "--now", "snapd.socket")
	if err != nil {
		return bootstrapErrorf("activating snapd.socket: %v", err)
	}
	if !res.Succeeded() {
		return bootstrapErrorf("activating snapd.socket: exit status %d", res.ExitCode)
	}

	// Classic confinement needs /snap; some distributions only ship the
	// data directory. Creating it needs root, which install/uninstall
	// callers already hold.
	if _, err := os.Lstat(snapMountDir); os.IsNotExist(err) && os.Geteuid() == 0 {
		if _, err := os.Stat(snapdDataDir); err == nil {
			if err := os.Symlink(snapdDataDir, snapMountDir); err != nil {
				return bootstrapErrorf("creating %s symlink: %v", snapMountDir, err)
			}
		}
	}

	return nil
}

func (b *snapBackend) IsInstalled(ctx context.Context, ref string) (bool, error) {
	if err := b.Bootstrap(ctx); err != nil {
		return false, err
	}
	res, err := b.deps.Runner.Run(ctx, "snap", "list", ref)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

func (b *snapBackend) IsAvailable(ctx context.Context, ref string) (bool, error) {
	if err := b.Bootstrap(ctx); err != nil {
		return false, err
	}
	res, err := b.deps.Runner.Run(ctx, "snap", "info", ref)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

func (b *snapBackend) Install(ctx context.Context, ref string) error {
	if err := b.Bootstrap(ctx); err != nil {
		return err
	}
	res, err := b.deps.Runner.Run(ctx, "snap", "install", ref)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Snap, Package: ref, Stage: "install", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

func (b *snapBackend) Remove(ctx context.Context, ref string, purge bool) error {
	args := []string{"remove"}
	if purge {
		args = append(args, "--purge")
	}
	args = append(args, ref)
	res, err := b.deps.Runner.Run(ctx, "snap", args...)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Snap, Package: ref, Stage: "remove", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// Refresh is a no-op: snap refresh both updates store metadata and
// upgrades, which Upgrade covers.
func (b *snapBackend) Refresh(context.Context) error {
	return nil
}

func (b *snapBackend) Upgrade(ctx context.Context) error {
	res, err := b.deps.Runner.Run(ctx, "snap", "refresh")
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Snap, Stage: "upgrade", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// Cleanup is a no-op: snapd garbage-collects old revisions itself.
func (b *snapBackend) Cleanup(context.Context) error {
	return nil
}
