// stationctl_test.go
package stationctl

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station-tools/stationctl/pkg/backend"
	"github.com/station-tools/stationctl/pkg/execx"
	"github.com/station-tools/stationctl/pkg/platform"
)

func testFacts(def backend.Type, root, network bool, exists func(string) bool) *platform.Facts {
	if exists == nil {
		exists = func(string) bool { return true }
	}
	return &platform.Facts{
		OS:            "linux",
		Arch:          "amd64",
		HasRoot:       root,
		HasNetwork:    network,
		Default:       def,
		CommandExists: exists,
	}
}

func newTestManager(facts *platform.Facts) (*Manager, *execx.FakeRunner) {
	runner := execx.NewFakeRunner()
	return NewManager(facts, runner, zerolog.Nop()), runner
}

// lineIndex returns the position of the first command line matching s, or -1.
func lineIndex(runner *execx.FakeRunner, s string) int {
	for i, line := range runner.Lines() {
		if line == s {
			return i
		}
	}
	return -1
}

func TestInstallRequiresRoot(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, false, true, nil))

	err := mgr.Install(context.Background(), "htop", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootRequired)
	assert.Empty(t, runner.Calls, "no backend command may run without root")
}

func TestInstallRequiresNetwork(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, false, nil))

	err := mgr.Install(context.Background(), "htop", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkRequired)
	assert.Empty(t, runner.Calls, "network check precedes any probe")
}

func TestInstallUnknownBackend(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Unknown, true, true, nil))

	err := mgr.Install(context.Background(), "htop", nil)

	require.Error(t, err)
	var unsupported *UnsupportedError
	assert.ErrorAs(t, err, &unsupported)
	assert.Empty(t, runner.Calls)
}

func TestInstallExplicitUnsupportedBackend(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))

	err := mgr.Install(context.Background(), "htop", &InstallOptions{Backend: "portage"})

	require.Error(t, err)
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, backend.Type("portage"), unsupported.Backend)
	assert.Empty(t, runner.Calls)
}

func TestInstallAlreadyInstalledIsNoOp(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.Respond("rpm -q htop", execx.Result{ExitCode: 0})

	err := mgr.Install(context.Background(), "htop", nil)

	require.NoError(t, err)
	require.Len(t, runner.Calls, 1, "only the installed-state query may run")
	assert.Equal(t, "rpm -q htop", runner.Calls[0].Line())
}

func TestInstallDnfScenario(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.Respond("rpm -q htop", execx.Result{ExitCode: 1})
	runner.Respond("dnf info htop", execx.Result{ExitCode: 0})
	runner.Respond("dnf install -y htop", execx.Result{ExitCode: 0})

	err := mgr.Install(context.Background(), "htop", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"rpm -q htop",
		"dnf info htop",
		"dnf install -y htop",
	}, runner.Lines())
}

func TestInstallPackageNotFound(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.Respond("rpm -q no-such-pkg", execx.Result{ExitCode: 1})
	runner.Respond("dnf info no-such-pkg", execx.Result{ExitCode: 1})

	err := mgr.Install(context.Background(), "no-such-pkg", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackageNotFound)
	assert.Equal(t, -1, lineIndex(runner, "dnf install -y no-such-pkg"))
}

func TestInstallExecError(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.Respond("rpm -q htop", execx.Result{ExitCode: 1})
	runner.Respond("dnf install -y htop", execx.Result{ExitCode: 1, Stderr: "mirror unreachable"})

	err := mgr.Install(context.Background(), "htop", nil)

	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, backend.Dnf, execErr.Backend)
	assert.Equal(t, "htop", execErr.Package)
	assert.Equal(t, "install", execErr.Stage)
	assert.Equal(t, 1, execErr.ExitCode)
}

func TestUninstallRequiresRootButNotNetwork(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, false, false, nil))
	err := mgr.Uninstall(context.Background(), "htop", nil)
	require.ErrorIs(t, err, ErrRootRequired)
	assert.Empty(t, runner.Calls)

	// With root, uninstall proceeds without network.
	mgr, runner = newTestManager(testFacts(backend.Dnf, true, false, nil))
	runner.Respond("rpm -q htop", execx.Result{ExitCode: 1})
	require.NoError(t, mgr.Uninstall(context.Background(), "htop", nil))
	require.Len(t, runner.Calls, 1)
}

func TestUninstallNotInstalledIsNoOp(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.Respond("rpm -q htop", execx.Result{ExitCode: 1})

	err := mgr.Uninstall(context.Background(), "htop", nil)

	require.NoError(t, err)
	require.Len(t, runner.Calls, 1, "only the installed-state query may run")
}

func TestUninstallPurgeCapturesConfigBeforeRemoval(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))
	runner.Respond("dpkg-query -W -f=${db:Status-Status} nginx", execx.Result{ExitCode: 0, Stdout: "installed"})
	runner.Respond("dpkg-query -W -f=${Conffiles}\n nginx", execx.Result{
		ExitCode: 0,
		Stdout:   " /etc/nginx/nginx.conf 0123abcd\n /etc/nginx/mime.types 4567cdef\n",
	})
	runner.Respond("apt-get purge -y nginx", execx.Result{ExitCode: 0})
	// Advisory cleanup failures must not fail the operation.
	runner.Respond("apt-get autoremove -y", execx.Result{ExitCode: 1})

	var removed []string
	mgr.removePath = func(path string) error {
		removed = append(removed, path)
		if path == "/etc/nginx/mime.types" {
			return errors.New("permission denied")
		}
		return nil
	}

	err := mgr.Uninstall(context.Background(), "nginx", &UninstallOptions{Purge: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/nginx/nginx.conf", "/etc/nginx/mime.types"}, removed)

	capture := lineIndex(runner, "dpkg-query -W -f=${Conffiles}\n nginx")
	purge := lineIndex(runner, "apt-get purge -y nginx")
	require.GreaterOrEqual(t, capture, 0)
	require.GreaterOrEqual(t, purge, 0)
	assert.Less(t, capture, purge, "config capture must precede removal")
	assert.GreaterOrEqual(t, lineIndex(runner, "apt-get autoclean"), 0)
}

func TestUninstallPurgeSkipsDeletionWhenRemovalFails(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))
	runner.Respond("dpkg-query -W -f=${db:Status-Status} nginx", execx.Result{ExitCode: 0, Stdout: "installed"})
	runner.Respond("dpkg-query -W -f=${Conffiles}\n nginx", execx.Result{
		ExitCode: 0,
		Stdout:   " /etc/nginx/nginx.conf 0123abcd\n",
	})
	runner.Respond("apt-get purge -y nginx", execx.Result{ExitCode: 100, Stderr: "dpkg lock held"})

	var removed []string
	mgr.removePath = func(path string) error {
		removed = append(removed, path)
		return nil
	}

	err := mgr.Uninstall(context.Background(), "nginx", &UninstallOptions{Purge: true})

	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "purge", execErr.Stage)
	assert.Empty(t, removed, "no config deletion after a failed removal")
}

func TestUpdateSequence(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))

	err := mgr.Update(context.Background())

	require.NoError(t, err)
	want := []string{
		"apt-get update",
		"apt-get upgrade -y",
		"apt-get autoremove -y",
		"apt-get autoclean",
		"snap refresh",
		"flatpak update -y",
	}
	assert.Equal(t, want, runner.Lines())
}

func TestUpdateSkipsAbsentUniversalBackends(t *testing.T) {
	exists := func(name string) bool { return name != "snap" && name != "flatpak" }
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, exists))

	require.NoError(t, mgr.Update(context.Background()))

	assert.Equal(t, -1, lineIndex(runner, "snap refresh"))
	assert.Equal(t, -1, lineIndex(runner, "flatpak update -y"))
}

func TestUpdateAbortsOnRefreshFailure(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))
	runner.Respond("apt-get update", execx.Result{ExitCode: 100})

	err := mgr.Update(context.Background())

	require.Error(t, err)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "refresh", execErr.Stage)
	assert.Equal(t, -1, lineIndex(runner, "apt-get upgrade -y"), "upgrade must not run after a failed refresh")
}

func TestUpdateSecondaryFailuresAreWarnings(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, nil))
	runner.Respond("snap refresh", execx.Result{ExitCode: 1})
	runner.Respond("flatpak update -y", execx.Result{ExitCode: 1})

	err := mgr.Update(context.Background())

	require.NoError(t, err, "secondary backend updates are best-effort")
}

func TestUpdateRequiresRootAndNetwork(t *testing.T) {
	mgr, runner := newTestManager(testFacts(backend.Apt, false, true, nil))
	require.ErrorIs(t, mgr.Update(context.Background()), ErrRootRequired)
	assert.Empty(t, runner.Calls)

	mgr, runner = newTestManager(testFacts(backend.Apt, true, false, nil))
	require.ErrorIs(t, mgr.Update(context.Background()), ErrNetworkRequired)
	assert.Empty(t, runner.Calls)
}

func TestFlatpakInstallBootstrapsFirst(t *testing.T) {
	// flatpak tool absent: bootstrap installs it through the primary
	// backend before anything else runs.
	exists := func(name string) bool { return name != "flatpak" }
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, exists))

	runner.Respond("dpkg-query -W -f=${db:Status-Status} flatpak", execx.Result{ExitCode: 1})
	runner.Respond("flatpak info org.example.App", execx.Result{ExitCode: 1})
	runner.Respond("flatpak remote-info flathub org.example.App", execx.Result{ExitCode: 0})

	err := mgr.Install(context.Background(), "org.example.App", &InstallOptions{Backend: backend.Flatpak})

	require.NoError(t, err)
	prereq := lineIndex(runner, "apt-get install -y flatpak")
	remoteAdd := lineIndex(runner, "flatpak remote-add --if-not-exists flathub https://dl.flathub.org/repo/flathub.flatpakrepo")
	install := lineIndex(runner, "flatpak install -y --noninteractive flathub org.example.App")
	require.GreaterOrEqual(t, prereq, 0)
	require.GreaterOrEqual(t, remoteAdd, 0)
	require.GreaterOrEqual(t, install, 0)
	assert.Less(t, prereq, remoteAdd)
	assert.Less(t, remoteAdd, install)
}

func TestFlatpakBootstrapFailureBlocksInstall(t *testing.T) {
	exists := func(name string) bool { return name != "flatpak" }
	mgr, runner := newTestManager(testFacts(backend.Apt, true, true, exists))

	runner.Respond("dpkg-query -W -f=${db:Status-Status} flatpak", execx.Result{ExitCode: 1})
	runner.Respond("flatpak remote-add --if-not-exists flathub https://dl.flathub.org/repo/flathub.flatpakrepo",
		execx.Result{ExitCode: 1, Stderr: "cannot resolve host"})

	err := mgr.Install(context.Background(), "org.example.App", &InstallOptions{Backend: backend.Flatpak})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBootstrap)
	assert.Equal(t, -1, lineIndex(runner, "flatpak install -y --noninteractive flathub org.example.App"),
		"no install attempt after a failed bootstrap")
}

func TestInstallProbeFailureProceedsConservatively(t *testing.T) {
	// A broken installed-state probe must bias toward attempting the
	// install, never toward skipping it.
	mgr, runner := newTestManager(testFacts(backend.Dnf, true, true, nil))
	runner.FailWith("rpm -q htop", errors.New("rpm: command not found"))
	runner.Respond("dnf info htop", execx.Result{ExitCode: 0})

	err := mgr.Install(context.Background(), "htop", nil)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, lineIndex(runner, "dnf install -y htop"), 0)
}
