// pkg/backend/rpmfile.go
package backend

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// rpmFileBackend installs a single .rpm artifact, named by a local path
// or an http(s) URL, directly through rpm. It has no repository index:
// availability means the file exists locally, or the URL is well-formed
// and the host has network. That is a reachability heuristic, not a
// guarantee the remote artifact is actually fetchable.
type rpmFileBackend struct {
	deps Deps
}

func newRPMFile(deps Deps) Backend {
	return &rpmFileBackend{deps: deps}
}

func (b *rpmFileBackend) Name() Type {
	return RPMFile
}

func isRPMURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// packageName resolves the rpm package name from a local artifact header.
// URL refs cannot be resolved without downloading.
func (b *rpmFileBackend) packageName(ctx context.Context, ref string) (string, error) {
	res, err := b.deps.Runner.Run(ctx, "rpm", "-qp", "--queryformat", "%{NAME}", ref)
	if err != nil {
		return "", err
	}
	if !res.Succeeded() {
		return "", &ExecError{Backend: RPMFile, Package: ref, Stage: "query", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	name := strings.TrimSpace(res.Stdout)
	if name == "" {
		return "", fmt.Errorf("no package name in %s", ref)
	}
	return name, nil
}

// IsInstalled resolves the package name from the local artifact and
// queries the rpm database. Remote artifacts cannot be queried without a
// download, so URL refs report not installed and the install proceeds.
func (b *rpmFileBackend) IsInstalled(ctx context.Context, ref string) (bool, error) {
	if isRPMURL(ref) {
		b.deps.Logger.Debug().Str("ref", ref).Msg("cannot query installed state of a remote rpm, assuming not installed")
		return false, nil
	}
	name, err := b.packageName(ctx, ref)
	if err != nil {
		return false, err
	}
	res, err := b.deps.Runner.Run(ctx, "rpm", "-q", name)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

// IsAvailable checks local file existence, or URL well-formedness plus
// the host network fact.
func (b *rpmFileBackend) IsAvailable(_ context.Context, ref string) (bool, error) {
	if isRPMURL(ref) {
		return b.deps.HasNetwork, nil
	}
	if _, err := os.Stat(ref); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Install hands the path or URL straight to rpm, which fetches URLs
// itself.
func (b *rpmFileBackend) Install(ctx context.Context, ref string) error {
	res, err := b.deps.Runner.Run(ctx, "rpm", "-Uvh", ref)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: RPMFile, Package: ref, Stage: "install", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// Remove erases the package by name. When the artifact is still present
// locally the name is read from its header; otherwise the ref is taken as
// the package name itself.
func (b *rpmFileBackend) Remove(ctx context.Context, ref string, _ bool) error {
	name := ref
	if !isRPMURL(ref) {
		if _, err := os.Stat(ref); err == nil {
			resolved, err := b.packageName(ctx, ref)
			if err != nil {
				return err
			}
			name = resolved
		}
	}
	res, err := b.deps.Runner.Run(ctx, "rpm", "-e", name)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{Backend: RPMFile, Package: name, Stage: "remove", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// ConfigFiles lists config paths owned by the installed package so purge
// can delete them after removal.
func (b *rpmFileBackend) ConfigFiles(ctx context.Context, ref string) ([]string, error) {
	name := ref
	if !isRPMURL(ref) {
		if _, err := os.Stat(ref); err == nil {
			resolved, err := b.packageName(ctx, ref)
			if err != nil {
				return nil, err
			}
			name = resolved
		}
	}
	res, err := b.deps.Runner.Run(ctx, "rpm", "-qc", name)
	if err != nil {
		return nil, err
	}
	if !res.Succeeded() {
		return nil, &ExecError{Backend: RPMFile, Package: name, Stage: "config-query", ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return parseLines(res.Stdout), nil
}

// Refresh has no repository index to refresh.
func (b *rpmFileBackend) Refresh(context.Context) error {
	return &UnsupportedError{Backend: RPMFile}
}

// Upgrade has no repository to upgrade from.
func (b *rpmFileBackend) Upgrade(context.Context) error {
	return &UnsupportedError{Backend: RPMFile}
}

// Cleanup is a no-op: rpm keeps no download cache.
func (b *rpmFileBackend) Cleanup(context.Context) error {
	return nil
}
