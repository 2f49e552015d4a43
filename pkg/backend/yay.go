// pkg/backend/yay.go
package backend

// newYay builds the Arch Linux AUR helper backend. yay mirrors pacman's
// flag conventions and falls through to pacman for repository packages.
func newYay(deps Deps) Backend {
	return &repoBackend{
		typ: Yay,
		cmds: commandSet{
			queryInstalled: recipe{"yay", "-Qi", refPlaceholder},
			queryAvailable: recipe{"yay", "-Si", refPlaceholder},
			install:        recipe{"yay", "-S", "--noconfirm", refPlaceholder},
			remove:         recipe{"yay", "-R", "--noconfirm", refPlaceholder},
			purge:          recipe{"yay", "-Rns", "--noconfirm", refPlaceholder},
			refresh:        recipe{"yay", "-Sy"},
			upgrade:        recipe{"yay", "-Su", "--noconfirm"},
			clean: []recipe{
				{"yay", "-Sc", "--noconfirm"},
			},
		},
		deps: deps,
	}
}
