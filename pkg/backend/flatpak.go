// pkg/backend/flatpak.go
package backend

import "context"

const (
	flathubRemote = "flathub"
	flathubURL    = "https://dl.flathub.org/repo/flathub.flatpakrepo"
)

// flatpakBackend installs applications from flathub. Refs are application
// IDs (org.example.App); matching is exact, never substring.
type flatpakBackend struct {
	deps Deps
}

func newFlatpak(deps Deps) Backend {
	return &flatpakBackend{deps: deps}
}

func (b *flatpakBackend) Name() Type {
	return Flatpak
}

// Bootstrap installs the flatpak tool through the host's primary backend
// when missing and registers the flathub remote. remote-add with
// --if-not-exists makes re-runs safe.
func (b *flatpakBackend) Bootstrap(ctx context.Context) error {
	if !b.deps.CommandExists("flatpak") {
		if b.deps.InstallPrereq == nil {
			return bootstrapErrorf("flatpak tool missing and no installer for it")
		}
		b.deps.Logger.Info().Msg("flatpak tool missing, installing it")
		if err := b.deps.InstallPrereq(ctx, "flatpak"); err != nil {
			return bootstrapErrorf("installing flatpak: %v", err)
		}
	}

	res, err := b.deps.Runner.Run(ctx, "flatpak", "remote-add", "--if-not-exists", flathubRemote, flathubURL)
	if err != nil {
		return bootstrapErrorf("registering flathub remote: %v", err)
	}
	if !res.Succeeded() {
		return bootstrapErrorf("registering flathub remote: exit status %d", res.ExitCode)
	}

	return nil
}

func (b *flatpakBackend) IsInstalled(ctx context.Context, ref string) (bool, error) {
	if err := b.Bootstrap(ctx); err != nil {
		return false, err
	}
	res, err := b.deps.Runner.Run(ctx, "flatpak", "info", ref)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

// IsAvailable asks the flathub remote for the exact application ID.
func (b *flatpakBackend) IsAvailable(ctx context.Context, ref string) (bool, error) {
	if err := b.Bootstrap(ctx); err != nil {
		return false, err
	}
	res, err := b.deps.Runner.Run(ctx, "flatpak", "remote-info", flathubRemote, ref)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

func (b *flatpakBackend) Install(ctx context.Context, ref string) error {
	if err := b.Bootstrap(ctx); err != nil {
		return err
	}
	res, err := b.deps.Runner.Run(ctx, "flatpak", "install", "-y", "--noninteractive", flathubRemote, ref)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Flatpak, Package: ref, Stage: "install", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

func (b *flatpakBackend) Remove(ctx context.Context, ref string, purge bool) error {
	args := []string{"uninstall", "-y"}
	if purge {
		args = append(args, "--delete-data")
	}
	args = append(args, ref)
	res, err := b.deps.Runner.Run(ctx, "flatpak", args...)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Flatpak, Package: ref, Stage: "remove", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// Refresh is a no-op: flatpak update refreshes appstream data itself.
func (b *flatpakBackend) Refresh(context.Context) error {
	return nil
}

func (b *flatpakBackend) Upgrade(ctx context.Context) error {
	res, err := b.deps.Runner.Run(ctx, "flatpak", "update", "-y")
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Flatpak, Stage: "upgrade", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

func (b *flatpakBackend) Cleanup(ctx context.Context) error {
	res, err := b.deps.Runner.Run(ctx, "flatpak", "uninstall", "--unused", "-y")
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: Flatpak, Stage: "clean", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}
