// Package config handles loading and validation of wsmux configuration.
//
// Configuration is read from ~/.config/wsmux/config.toml, or the file
// named by $WSMUX_CONFIG. A missing file means defaults.
//
// # Configuration Sources (highest priority first)
//
//   - WSMUX_SESSION env var: base session name
//   - .wsmux.toml in the workspace directory (hooks and bootstrap_cd only)
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - session: base session holding one window per workspace (default "main")
//   - terminal_program: required $TERM_PROGRAM, "" for any (default "vscode")
//   - workspace_env: variables naming the workspace directory
//   - window_option: window user option recording the workspace path
//   - bootstrap_cd: type a cd into newly created windows
//   - [tmux]: binary, socket and config file
//   - [lock]: serialize window creation between terminals
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.venv]
//	command = "tmux send-keys -t {window-id} 'source .venv/bin/activate' Enter"
//	on = ["create"]
//
// A .wsmux.toml hook with the same name replaces the global one; setting
// enabled = false there removes it for that workspace.
package config
