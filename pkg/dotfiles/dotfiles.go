// pkg/dotfiles/dotfiles.go
package dotfiles

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// defaultIgnores are source entries never deployed.
var defaultIgnores = map[string]bool{
	".git":       true,
	".gitignore": true,
	"README.md":  true,
	"LICENSE":    true,
}

// Result summarizes one deployment run.
type Result struct {
	Copied   []string
	Skipped  []string
	BackedUp []string
}

// Deployer copies a dotfiles source tree into a target directory
// (normally the user's home), backing up files it would overwrite.
type Deployer struct {
	Source string
	Target string

	// BackupDir receives pre-existing files before they are replaced.
	// Defaults to <target>/.stationctl-backup/<timestamp>.
	BackupDir string

	logger zerolog.Logger
}

// New creates a deployer from source into target.
func New(source, target string, logger zerolog.Logger) *Deployer {
	return &Deployer{
		Source: source,
		Target: target,
		logger: logger,
	}
}

// Deploy walks the source tree and copies every regular file to the same
// relative path under the target. Files whose content already matches are
// skipped; differing files are backed up first.
func (d *Deployer) Deploy() (*Result, error) {
	info, err := os.Stat(d.Source)
	if err != nil {
		return nil, fmt.Errorf("dotfiles source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dotfiles source %s is not a directory", d.Source)
	}

	backupDir := d.BackupDir
	if backupDir == "" {
		backupDir = filepath.Join(d.Target, ".stationctl-backup", time.Now().Format("20060102-150405"))
	}

	res := &Result{}
	err = filepath.WalkDir(d.Source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.Source, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if defaultIgnores[entry.Name()] {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			d.logger.Debug().Str("path", rel).Msg("skipping non-regular file")
			res.Skipped = append(res.Skipped, rel)
			return nil
		}

		dest := filepath.Join(d.Target, rel)
		same, err := sameContent(path, dest)
		if err != nil {
			return err
		}
		if same {
			res.Skipped = append(res.Skipped, rel)
			return nil
		}

		if _, err := os.Stat(dest); err == nil {
			backup := filepath.Join(backupDir, rel)
			if err := os.MkdirAll(filepath.Dir(backup), 0o755); err != nil {
				return err
			}
			if err := os.Rename(dest, backup); err != nil {
				return fmt.Errorf("backing up %s: %w", dest, err)
			}
			d.logger.Debug().Str("path", rel).Str("backup", backup).Msg("backed up existing file")
			res.BackedUp = append(res.BackedUp, rel)
		}

		if err := copyFile(path, dest); err != nil {
			return err
		}
		d.logger.Debug().Str("path", rel).Msg("deployed")
		res.Copied = append(res.Copied, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("copied", len(res.Copied)).
		Int("skipped", len(res.Skipped)).
		Int("backed_up", len(res.BackedUp)).
		Msg("dotfiles deployed")

	return res, nil
}

func sameContent(a, b string) (bool, error) {
	dataB, err := os.ReadFile(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	dataA, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	return bytes.Equal(dataA, dataB), nil
}

func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, info.Mode().Perm())
}
