package config

import (
	"os"
	"path/filepath"
)

// ConfigHome returns the directory holding the user-level config file.
// Resolution order: $CLOD_CONFIG_HOME, $XDG_CONFIG_HOME/clod,
// ~/.config/clod.
func ConfigHome() (string, error) {
	if dir := os.Getenv("CLOD_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "clod"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clod"), nil
}

// DiscoveredFiles lists the config files found for a project, one per
// tier, in ascending precedence. Empty fields mean the tier contributes
// nothing.
type DiscoveredFiles struct {
	User         string
	ProjectBase  string
	ProjectLocal string
}

// ordered returns the non-empty files lowest precedence first.
func (d DiscoveredFiles) ordered() []string {
	var files []string
	for _, f := range []string{d.User, d.ProjectBase, d.ProjectLocal} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Discover locates the user-level and project-level config files. Each
// project tier allows exactly one of its two layouts; both existing at
// once is a DuplicateConfigError.
func Discover(projectDir string) (DiscoveredFiles, error) {
	var d DiscoveredFiles

	if home, err := ConfigHome(); err == nil {
		if f := filepath.Join(home, "config.toml"); isFile(f) {
			d.User = f
		}
	}

	base, err := tierFile(
		filepath.Join(projectDir, "clod.toml"),
		filepath.Join(projectDir, ".clod", "config.toml"),
	)
	if err != nil {
		return DiscoveredFiles{}, err
	}
	d.ProjectBase = base

	local, err := tierFile(
		filepath.Join(projectDir, "clod.local.toml"),
		filepath.Join(projectDir, ".clod", "config.local.toml"),
	)
	if err != nil {
		return DiscoveredFiles{}, err
	}
	d.ProjectLocal = local

	return d, nil
}

// tierFile picks the single config file for a tier from its two
// mutually exclusive layouts.
func tierFile(rootLayout, dirLayout string) (string, error) {
	rootOK := isFile(rootLayout)
	dirOK := isFile(dirLayout)
	switch {
	case rootOK && dirOK:
		return "", &DuplicateConfigError{Files: []string{rootLayout, dirLayout}}
	case rootOK:
		return rootLayout, nil
	case dirOK:
		return dirLayout, nil
	}
	return "", nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
