// Package config resolves clod's layered TOML configuration into one
// effective Settings value.
//
// Sources merge in ascending precedence: built-in defaults, the user
// config (~/.config/clod/config.toml), the project base config
// (clod.toml or .clod/config.toml), the project local config
// (clod.local.toml or .clod/config.local.toml), CLOD_* environment
// variables, then explicit caller overrides. An explicit config file
// passed on the command line replaces discovery entirely.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings is the resolved sandbox configuration. Construct it with
// Load; treat it as immutable apart from the explicit clone methods.
type Settings struct {
	// SandboxName is the directory created under the project that
	// stands in for $HOME inside the sandbox.
	SandboxName string

	// EnableNetwork keeps the host network namespace shared with the
	// sandbox. When false the jail adds a network unshare.
	EnableNetwork bool

	// Term, Lang, and Shell seed TERM, LANG, and SHELL in the sandbox.
	Term  string
	Lang  string
	Shell string
}

// DefaultSettings returns the built-in defaults, used when no config
// source overrides a field.
func DefaultSettings() Settings {
	return Settings{
		SandboxName:   ".claude-sandbox",
		EnableNetwork: true,
		Term:          "xterm-256color",
		Lang:          "en_US.UTF-8",
		Shell:         "/bin/bash",
	}
}

// WithNetworkDisabled returns a copy with network access turned off.
// Backs the --no-network flag, which outranks every config source.
func (s Settings) WithNetworkDisabled() Settings {
	s.EnableNetwork = false
	return s
}

// SandboxHome returns the sandbox home directory for a project.
func SandboxHome(projectDir string, s Settings) string {
	return filepath.Join(projectDir, s.SandboxName)
}

const envPrefix = "CLOD_"

// settingsFromMap builds Settings from merged raw config values, then
// applies environment overrides on top. Unknown keys are dropped for
// forward compatibility; a known key with the wrong type is fatal.
func settingsFromMap(raw map[string]any) (Settings, error) {
	s := DefaultSettings()

	if err := applyString(raw, "sandbox_name", &s.SandboxName); err != nil {
		return Settings{}, err
	}
	if err := applyBool(raw, "enable_network", &s.EnableNetwork); err != nil {
		return Settings{}, err
	}
	if err := applyString(raw, "term", &s.Term); err != nil {
		return Settings{}, err
	}
	if err := applyString(raw, "lang", &s.Lang); err != nil {
		return Settings{}, err
	}
	if err := applyString(raw, "shell", &s.Shell); err != nil {
		return Settings{}, err
	}

	if v, ok := lookupEnv("sandbox_name"); ok {
		s.SandboxName = v
	}
	if v, ok := lookupEnv("enable_network"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, &TypeError{Key: "enable_network", Want: "bool", Value: v}
		}
		s.EnableNetwork = enabled
	}
	if v, ok := lookupEnv("term"); ok {
		s.Term = v
	}
	if v, ok := lookupEnv("lang"); ok {
		s.Lang = v
	}
	if v, ok := lookupEnv("shell"); ok {
		s.Shell = v
	}

	return s, nil
}

func applyString(raw map[string]any, key string, dst *string) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return &TypeError{Key: key, Want: "string", Value: value}
	}
	*dst = str
	return nil
}

func applyBool(raw map[string]any, key string, dst *bool) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	b, ok := value.(bool)
	if !ok {
		return &TypeError{Key: key, Want: "bool", Value: value}
	}
	*dst = b
	return nil
}

// lookupEnv finds CLOD_<KEY> in the environment, matching the variable
// name case-insensitively.
func lookupEnv(key string) (string, bool) {
	want := envPrefix + key
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(name, want) {
			return value, true
		}
	}
	return "", false
}
