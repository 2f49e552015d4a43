// pkg/backend/dnf.go
package backend

// newDnf builds the Fedora/RHEL backend. The installed-state query goes
// through rpm, which reads the rpm database without touching the network.
func newDnf(deps Deps) Backend {
	return &configQueryBackend{
		repoBackend: &repoBackend{
			typ: Dnf,
			cmds: commandSet{
				queryInstalled: recipe{"rpm", "-q", refPlaceholder},
				queryAvailable: recipe{"dnf", "info", refPlaceholder},
				install:        recipe{"dnf", "install", "-y", refPlaceholder},
				remove:         recipe{"dnf", "remove", "-y", refPlaceholder},
				refresh:        recipe{"dnf", "makecache", "--refresh"},
				upgrade:        recipe{"dnf", "upgrade", "-y"},
				clean: []recipe{
					{"dnf", "autoremove", "-y"},
					{"dnf", "clean", "packages"},
				},
			},
			deps: deps,
		},
		// rpm drops the file-list metadata on erase, so config paths
		// must be captured before removal
		configQuery: recipe{"rpm", "-qc", refPlaceholder},
		parseConfig: parseLines,
	}
}
