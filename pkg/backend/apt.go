// pkg/backend/apt.go
package backend

import (
	"strings"

	"github.com/station-tools/stationctl/pkg/execx"
)

// newApt builds the Debian/Ubuntu backend. Mutations go through apt-get;
// the installed-state query goes through dpkg-query, which reads the dpkg
// status database directly.
func newApt(deps Deps) Backend {
	return &configQueryBackend{
		repoBackend: &repoBackend{
			typ: Apt,
			cmds: commandSet{
				queryInstalled: recipe{"dpkg-query", "-W", "-f=${db:Status-Status}", refPlaceholder},
				queryAvailable: recipe{"apt-cache", "show", refPlaceholder},
				install:        recipe{"apt-get", "install", "-y", refPlaceholder},
				remove:         recipe{"apt-get", "remove", "-y", refPlaceholder},
				purge:          recipe{"apt-get", "purge", "-y", refPlaceholder},
				refresh:        recipe{"apt-get", "update"},
				upgrade:        recipe{"apt-get", "upgrade", "-y"},
				clean: []recipe{
					{"apt-get", "autoremove", "-y"},
					{"apt-get", "autoclean"},
				},
				installedMatch: dpkgInstalled,
			},
			deps: deps,
		},
		configQuery: recipe{"dpkg-query", "-W", "-f=${Conffiles}\n", refPlaceholder},
		parseConfig: parseConffiles,
	}
}

// dpkgInstalled checks the dpkg status of the package. dpkg-query also
// exits zero for removed-but-not-purged packages, so the status text is
// authoritative.
func dpkgInstalled(_ string, res execx.Result) bool {
	return res.Succeeded() && strings.TrimSpace(res.Stdout) == "installed"
}

// parseConffiles extracts paths from dpkg's Conffiles field, whose lines
// are " /path md5sum" pairs.
func parseConffiles(stdout string) []string {
	var paths []string
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
			continue
		}
		paths = append(paths, fields[0])
	}
	return paths
}
