// pkg/backend/yum.go
package backend

// newYum builds the legacy RHEL/CentOS backend. Same rpm-database queries
// as dnf; mutations go through yum.
func newYum(deps Deps) Backend {
	return &configQueryBackend{
		repoBackend: &repoBackend{
			typ: Yum,
			cmds: commandSet{
				queryInstalled: recipe{"rpm", "-q", refPlaceholder},
				queryAvailable: recipe{"yum", "info", refPlaceholder},
				install:        recipe{"yum", "install", "-y", refPlaceholder},
				remove:         recipe{"yum", "remove", "-y", refPlaceholder},
				refresh:        recipe{"yum", "makecache"},
				upgrade:        recipe{"yum", "update", "-y"},
				clean: []recipe{
					{"yum", "autoremove", "-y"},
					{"yum", "clean", "packages"},
				},
			},
			deps: deps,
		},
		configQuery: recipe{"rpm", "-qc", refPlaceholder},
		parseConfig: parseLines,
	}
}
