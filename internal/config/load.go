package config

import (
	"github.com/BurntSushi/toml"
)

// Load resolves the effective settings for a project directory.
//
// When explicitFile is non-empty only that file is read and discovery
// is skipped. Otherwise the discovered user, project-base, and
// project-local files are deep-merged in ascending precedence.
// Environment overrides apply on top of file values either way.
func Load(projectDir, explicitFile string) (Settings, error) {
	raw, err := loadRaw(projectDir, explicitFile)
	if err != nil {
		return Settings{}, err
	}
	return settingsFromMap(raw)
}

func loadRaw(projectDir, explicitFile string) (map[string]any, error) {
	if explicitFile != "" {
		if !isFile(explicitFile) {
			return nil, &NotFoundError{Path: explicitFile}
		}
		return decodeFile(explicitFile)
	}

	discovered, err := Discover(projectDir)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	for _, path := range discovered.ordered() {
		raw, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, raw)
	}
	return merged, nil
}

func decodeFile(path string) (map[string]any, error) {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return raw, nil
}
