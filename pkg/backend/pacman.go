// pkg/backend/pacman.go
package backend

// newPacman builds the Arch Linux backend. -Rns on purge removes the
// package together with its unused dependencies and saved config files,
// so pacman needs no separate config capture.
func newPacman(deps Deps) Backend {
	return &repoBackend{
		typ: Pacman,
		cmds: commandSet{
			queryInstalled: recipe{"pacman", "-Qi", refPlaceholder},
			queryAvailable: recipe{"pacman", "-Si", refPlaceholder},
			install:        recipe{"pacman", "-S", "--noconfirm", refPlaceholder},
			remove:         recipe{"pacman", "-R", "--noconfirm", refPlaceholder},
			purge:          recipe{"pacman", "-Rns", "--noconfirm", refPlaceholder},
			refresh:        recipe{"pacman", "-Sy"},
			upgrade:        recipe{"pacman", "-Su", "--noconfirm"},
			clean: []recipe{
				{"pacman", "-Sc", "--noconfirm"},
			},
		},
		deps: deps,
	}
}
