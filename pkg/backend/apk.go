// pkg/backend/apk.go
package backend

import (
	"strings"

	"github.com/station-tools/stationctl/pkg/execx"
)

// newApk builds the Alpine backend. apk search prints fuzzy matches, so
// availability requires an exact name match against the output.
func newApk(deps Deps) Backend {
	return &repoBackend{
		typ: Apk,
		cmds: commandSet{
			queryInstalled: recipe{"apk", "info", "-e", refPlaceholder},
			queryAvailable: recipe{"apk", "search", "-x", refPlaceholder},
			install:        recipe{"apk", "add", refPlaceholder},
			remove:         recipe{"apk", "del", refPlaceholder},
			purge:          recipe{"apk", "del", "--purge", refPlaceholder},
			refresh:        recipe{"apk", "update"},
			upgrade:        recipe{"apk", "upgrade"},
			clean: []recipe{
				{"apk", "cache", "clean"},
			},
			installedMatch: apkInstalled,
			availableMatch: apkAvailable,
		},
		deps: deps,
	}
}

// apkInstalled requires the exact package name in the output; apk info -e
// exits zero but prints nothing when the package is absent on some
// versions.
func apkInstalled(ref string, res execx.Result) bool {
	return res.Succeeded() && strings.TrimSpace(res.Stdout) == ref
}

// apkAvailable accepts any "name-version" line whose name is exactly ref.
func apkAvailable(ref string, res execx.Result) bool {
	if !res.Succeeded() {
		return false
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ref || strings.HasPrefix(line, ref+"-") {
			return true
		}
	}
	return false
}
