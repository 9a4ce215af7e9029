// Package tmux is a typed client for the tmux command line.
//
// Every operation is one synchronous tmux invocation through a [Runner],
// so tests can swap in an in-memory server (see package tmuxtest). A
// [Client] optionally pins a server with -L (socket name) or -S (socket
// path); wsmux otherwise shares the user's default server so attached
// terminals see the same sessions as a hand-run `tmux ls`.
//
// Windows are addressed by their tmux id (@N) wherever possible. Window
// names produced by wsmux may contain '.', which tmux would read as a
// pane separator inside a target.
//
// # Errors
//
// Failures are *errors.Error values from internal/errors:
//
//   - KindExternalTool: tmux could not be run, or exited non-zero for a
//     reason other than "no such session/window"
//   - KindSpawn: new-session or new-window failed
//   - KindAttribute: a window option could not be set
//
// A missing session is not an error: [Client.SessionExists] reports false,
// and a vanished window reads as an unset option.
package tmux
