// Package hooks runs configured shell commands around window creation and
// attach, with placeholder substitution.
//
// # Hook Selection
//
// Hooks run automatically when their "on" list names the trigger:
//
//   - create: a workspace window was just created (after the cd)
//   - attach: the terminal is about to attach
//   - all: both
//
// Hooks without "on" only run via `wsmux hook NAME`.
//
// # Placeholder Substitution
//
//   - {path}: workspace path
//   - {window}: window name
//   - {window-id}: tmux window id
//   - {session}: base session
//   - {client}: the terminal's client session
//   - {trigger}: create, attach or manual
//
// Custom variables via --arg key=value:
//
//   - {key}: shell-quoted value
//   - {key:raw}: unquoted value
//   - {key:-default}: value with fallback if not provided
//
// # Execution
//
// Hooks run through sh -c in the workspace directory, one after another.
// Automatic hooks never stop the attach; their failures are logged as
// warnings.
package hooks
