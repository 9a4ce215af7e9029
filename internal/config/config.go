package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	werrors "github.com/raphi011/wsmux/internal/errors"
	"github.com/raphi011/wsmux/internal/storage"
)

// Environment variables read by Load and Path.
const (
	EnvConfig  = "WSMUX_CONFIG"
	EnvSession = "WSMUX_SESSION"
)

// Defaults for empty settings.
const (
	DefaultSession         = "main"
	DefaultTerminalProgram = "vscode"
	DefaultWorkspaceEnv    = "WSMUX_WORKSPACE"
	DefaultWindowOption    = "@wsmux_workspace"
	DefaultTmuxBinary      = "tmux"
)

// Hook defines a command run when wsmux creates or attaches a window.
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"`      // triggers; empty means the hook never runs automatically
	Enabled     *bool    `toml:"enabled"` // nil = enabled; false in .wsmux.toml disables a global hook
}

// IsEnabled reports whether the hook is enabled (nil counts as enabled).
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// TmuxConfig selects the tmux binary and server.
type TmuxConfig struct {
	Binary     string `toml:"binary"`
	SocketName string `toml:"socket_name"` // -L
	SocketPath string `toml:"socket_path"` // -S, wins over socket_name
	ConfigFile string `toml:"config_file"` // -f, only used when starting the server
}

// LockConfig controls serialized resolution.
type LockConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty: $XDG_RUNTIME_DIR or the temp dir
}

// Config holds the wsmux configuration
type Config struct {
	Session         string      `toml:"session"`
	TerminalProgram string      `toml:"terminal_program"` // "" accepts any terminal
	WorkspaceEnv    []string    `toml:"workspace_env"`
	WindowOption    string      `toml:"window_option"`
	BootstrapCD     bool        `toml:"bootstrap_cd"`
	Tmux            TmuxConfig  `toml:"tmux"`
	Lock            LockConfig  `toml:"lock"`
	Hooks           HooksConfig `toml:"-"` // custom parsing needed
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Session:         DefaultSession,
		TerminalProgram: DefaultTerminalProgram,
		WorkspaceEnv:    []string{DefaultWorkspaceEnv},
		WindowOption:    DefaultWindowOption,
		BootstrapCD:     true,
		Tmux:            TmuxConfig{Binary: DefaultTmuxBinary},
		Hooks:           HooksConfig{Hooks: map[string]Hook{}},
	}
}

// WorkspacePath returns the first non-empty workspace variable, or wd.
func (c *Config) WorkspacePath(getenv func(string) string, wd string) string {
	for _, name := range c.WorkspaceEnv {
		if v := getenv(name); v != "" {
			return v
		}
	}
	return wd
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location: $WSMUX_CONFIG, or
// ~/.config/wsmux/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wsmux", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing. Pointers tell "unset" apart
// from values whose zero is meaningful.
type rawConfig struct {
	Session         string         `toml:"session"`
	TerminalProgram *string        `toml:"terminal_program"`
	WorkspaceEnv    []string       `toml:"workspace_env"`
	WindowOption    string         `toml:"window_option"`
	BootstrapCD     *bool          `toml:"bootstrap_cd"`
	Tmux            TmuxConfig     `toml:"tmux"`
	Lock            LockConfig     `toml:"lock"`
	Hooks           map[string]any `toml:"hooks"`
}

// Load reads the config file at Path() and applies $WSMUX_SESSION.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		applyEnv(&cfg, os.Getenv)
		return cfg, nil
	}
	return LoadFile(path, os.Getenv)
}

// LoadFile reads the config at path. getenv supplies environment overrides.
func LoadFile(path string, getenv func(string) string) (Config, error) {
	const op = werrors.Op("config.Load")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnv(&cfg, getenv)
			if err := validate(&cfg); err != nil {
				return Default(), werrors.E(op, werrors.KindConfig, EnvSession, err)
			}
			return cfg, nil
		}
		return Default(), werrors.E(op, werrors.KindConfig, path, err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return Default(), werrors.E(op, werrors.KindConfig, path, err)
	}
	return cfg, nil
}

// Parse decodes, fills defaults, applies environment overrides and
// validates a config file's content.
func Parse(data []byte, getenv func(string) string) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if raw.Session != "" {
		cfg.Session = raw.Session
	}
	if raw.TerminalProgram != nil {
		cfg.TerminalProgram = *raw.TerminalProgram
	}
	if raw.WorkspaceEnv != nil {
		cfg.WorkspaceEnv = raw.WorkspaceEnv
	}
	if raw.WindowOption != "" {
		cfg.WindowOption = raw.WindowOption
	}
	if raw.BootstrapCD != nil {
		cfg.BootstrapCD = *raw.BootstrapCD
	}
	cfg.Tmux = raw.Tmux
	if cfg.Tmux.Binary == "" {
		cfg.Tmux.Binary = DefaultTmuxBinary
	}
	cfg.Lock = raw.Lock
	cfg.Hooks = parseHooksConfig(raw.Hooks)

	applyEnv(&cfg, getenv)

	if err := validate(&cfg); err != nil {
		return Default(), err
	}

	// Expand ~ (shell doesn't expand in config files)
	for _, p := range []*string{&cfg.Tmux.SocketPath, &cfg.Tmux.ConfigFile, &cfg.Lock.Dir} {
		expanded, err := expandPath(*p)
		if err != nil {
			return Default(), err
		}
		*p = expanded
	}

	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if s := getenv(EnvSession); s != "" {
		cfg.Session = s
	}
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		hc.Hooks[key] = hook
	}

	return hc
}

const defaultConfig = `# wsmux configuration

# Base session holding one window per workspace.
# Overridden by $WSMUX_SESSION.
# session = "main"

# Only take over terminals whose $TERM_PROGRAM matches. "" accepts any.
# terminal_program = "vscode"

# Variables naming the workspace directory, first non-empty wins.
# Falls back to the shell's working directory.
# workspace_env = ["WSMUX_WORKSPACE"]

# Window user option recording the workspace path. Must start with "@".
# window_option = "@wsmux_workspace"

# Type "cd -- '<path>'" into newly created windows.
# bootstrap_cd = true

# [tmux]
# binary = "tmux"
# socket_name = ""   # tmux -L
# socket_path = ""   # tmux -S, wins over socket_name
# config_file = ""   # tmux -f, only used when wsmux starts the server

# Serialize window creation between terminals opened at the same time.
# [lock]
# enabled = false
# dir = ""           # default: $XDG_RUNTIME_DIR or the temp dir

# Hooks run after a window is created or before the terminal attaches.
#
# [hooks.venv]
# command = "tmux send-keys -t {window-id} 'source .venv/bin/activate' Enter"
# description = "Activate the virtualenv in new windows"
# on = ["create"]
#
# Available "on" values: "create", "attach", "all"
#
# Available placeholders (shell quoted):
#   {path}       - workspace path
#   {window}     - window name
#   {window-id}  - tmux window id, e.g. @3
#   {session}    - base session
#   {client}     - this terminal's client session
#   {trigger}    - create or attach
`

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := storage.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// DefaultConfig returns the commented default configuration.
func DefaultConfig() string {
	return defaultConfig
}
