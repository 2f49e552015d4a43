// pkg/backend/commands.go
package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/station-tools/stationctl/pkg/execx"
)

// refPlaceholder marks where the package ref is substituted in a recipe.
const refPlaceholder = "{ref}"

// recipe is a pure-data command template. Templates never carry shell
// syntax; every recipe runs through the execx boundary argv-style.
type recipe []string

// expand substitutes the ref placeholder into a copy of the recipe.
func (r recipe) expand(ref string) (string, []string) {
	args := make([]string, 0, len(r)-1)
	for _, a := range r[1:] {
		args = append(args, strings.ReplaceAll(a, refPlaceholder, ref))
	}
	return r[0], args
}

// commandSet is the capability table entry for one repository-backed
// manager: the full operation recipe set, plus the match rules for its
// query commands where exit code alone is not enough.
type commandSet struct {
	queryInstalled recipe
	queryAvailable recipe
	install        recipe
	remove         recipe
	purge          recipe   // falls back to remove when nil
	refresh        recipe   // nil when the manager has no separate refresh
	upgrade        recipe
	clean          []recipe // advisory post-removal cleanup stages

	// installedMatch decides installed-ness from the query result;
	// nil means exit code zero.
	installedMatch func(ref string, res execx.Result) bool

	// availableMatch decides availability from the query result;
	// nil means exit code zero.
	availableMatch func(ref string, res execx.Result) bool
}

// repoBackend drives one repository-backed manager from its commandSet.
// apt, dnf, yum, pacman, yay and apk all share this implementation.
type repoBackend struct {
	typ  Type
	cmds commandSet
	deps Deps
}

func (b *repoBackend) Name() Type {
	return b.typ
}

func (b *repoBackend) run(ctx context.Context, r recipe, ref string) (execx.Result, error) {
	name, args := r.expand(ref)
	return b.deps.Runner.Run(ctx, name, args...)
}

// mutate runs a recipe whose non-zero exit fails the operation.
func (b *repoBackend) mutate(ctx context.Context, r recipe, ref, stage string) error {
	res, err := b.run(ctx, r, ref)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return &ExecError{
			Backend:  b.typ,
			Package:  ref,
			Stage:    stage,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return nil
}

func (b *repoBackend) IsInstalled(ctx context.Context, ref string) (bool, error) {
	res, err := b.run(ctx, b.cmds.queryInstalled, ref)
	if err != nil {
		return false, err
	}
	if b.cmds.installedMatch != nil {
		return b.cmds.installedMatch(ref, res), nil
	}
	return res.Succeeded(), nil
}

func (b *repoBackend) IsAvailable(ctx context.Context, ref string) (bool, error) {
	res, err := b.run(ctx, b.cmds.queryAvailable, ref)
	if err != nil {
		return false, err
	}
	if b.cmds.availableMatch != nil {
		return b.cmds.availableMatch(ref, res), nil
	}
	return res.Succeeded(), nil
}

func (b *repoBackend) Install(ctx context.Context, ref string) error {
	return b.mutate(ctx, b.cmds.install, ref, "install")
}

func (b *repoBackend) Remove(ctx context.Context, ref string, purge bool) error {
	r := b.cmds.remove
	stage := "remove"
	if purge && b.cmds.purge != nil {
		r = b.cmds.purge
		stage = "purge"
	}
	return b.mutate(ctx, r, ref, stage)
}

func (b *repoBackend) Refresh(ctx context.Context) error {
	if b.cmds.refresh == nil {
		return nil
	}
	return b.mutate(ctx, b.cmds.refresh, "", "refresh")
}

func (b *repoBackend) Upgrade(ctx context.Context) error {
	return b.mutate(ctx, b.cmds.upgrade, "", "upgrade")
}

// Cleanup attempts every advisory stage even when an earlier one fails;
// all stage failures are reported together.
func (b *repoBackend) Cleanup(ctx context.Context) error {
	var errs []error
	for _, r := range b.cmds.clean {
		if err := b.mutate(ctx, r, "", "clean"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// configQueryBackend extends repoBackend for managers that track
// per-package configuration files separately from the package database.
type configQueryBackend struct {
	*repoBackend
	configQuery recipe
	parseConfig func(stdout string) []string
}

// ConfigFiles returns the configuration paths owned by ref. It must be
// called before removal: removal may delete the file-list metadata.
func (b *configQueryBackend) ConfigFiles(ctx context.Context, ref string) ([]string, error) {
	res, err := b.run(ctx, b.configQuery, ref)
	if err != nil {
		return nil, err
	}
	if !res.Succeeded() {
		return nil, &ExecError{
			Backend:  b.typ,
			Package:  ref,
			Stage:    "config-query",
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return b.parseConfig(res.Stdout), nil
}

// parseLines returns the non-empty trimmed lines of stdout; the rpm
// family lists one config path per line.
func parseLines(stdout string) []string {
	var paths []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "/") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}
