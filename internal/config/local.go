package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	werrors "github.com/raphi011/wsmux/internal/errors"
)

// LocalConfigFileName is the per-workspace override file.
const LocalConfigFileName = ".wsmux.toml"

// LocalConfig is a workspace's .wsmux.toml. A nil BootstrapCD inherits
// the global setting.
type LocalConfig struct {
	Hooks       HooksConfig `toml:"-"`
	BootstrapCD *bool       `toml:"bootstrap_cd"`
}

type rawLocalConfig struct {
	Hooks       map[string]any `toml:"hooks"`
	BootstrapCD *bool          `toml:"bootstrap_cd"`
}

// LoadLocal reads dir/.wsmux.toml. A missing or unreadable file, or an
// empty dir, yields nil without error: the workspace simply has no
// overrides.
func LoadLocal(dir string) (*LocalConfig, error) {
	const op = werrors.Op("config.LoadLocal")
	if dir == "" {
		return nil, nil
	}

	path := filepath.Join(dir, LocalConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return nil, nil
	case err != nil:
		return nil, werrors.E(op, werrors.KindIO, path, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, werrors.E(op, werrors.KindConfig, path, err)
	}
	local := &LocalConfig{
		Hooks:       parseHooksConfig(raw.Hooks),
		BootstrapCD: raw.BootstrapCD,
	}
	if err := validateHooks(local.Hooks, path); err != nil {
		return nil, werrors.E(op, werrors.KindConfig, err)
	}
	return local, nil
}

// defaultLocalConfig is written by `wsmux config init --local`.
const defaultLocalConfig = `# wsmux local config (per-workspace overrides)
# Place this file at the root of the workspace.
# Settings here override ~/.config/wsmux/config.toml for this workspace only.

# bootstrap_cd = false

# Hooks - add workspace-specific hooks or override global hooks
# Set enabled = false to disable a global hook for this workspace
#
# [hooks.deps]
# command = "tmux send-keys -t {window-id} 'npm install' Enter"
# description = "Install dependencies in new windows"
# on = ["create"]
#
# [hooks.global-hook-name]
# enabled = false  # Disable this global hook for this workspace
`

// DefaultLocalConfig returns the .wsmux.toml template.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
