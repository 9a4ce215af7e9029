package tmux

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	werrors "github.com/raphi011/wsmux/internal/errors"
)

// DefaultBinary is used when Options.Binary is empty.
const DefaultBinary = "tmux"

// Options select the tmux binary and server.
type Options struct {
	Binary     string
	SocketName string // -L
	SocketPath string // -S, wins over SocketName
	// ConfigFile is passed as -f on new-session, the only command that can
	// start the server.
	ConfigFile string
}

// Client issues tmux commands against one server.
type Client struct {
	binary     string
	socketArgs []string
	configFile string
	runner     Runner
}

// Window identifies a tmux window. ID is the server-wide @N id.
type Window struct {
	ID   string
	Name string
}

// Session is one entry of list-sessions.
type Session struct {
	Name     string
	Group    string // empty when ungrouped
	Attached int
	Windows  int
}

// New returns a Client. A nil runner means ExecRunner.
func New(opts Options, runner Runner) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	var socketArgs []string
	switch {
	case opts.SocketPath != "":
		socketArgs = []string{"-S", opts.SocketPath}
	case opts.SocketName != "":
		socketArgs = []string{"-L", opts.SocketName}
	}
	return &Client{
		binary:     binary,
		socketArgs: socketArgs,
		configFile: opts.ConfigFile,
		runner:     runner,
	}
}

// Binary returns the configured tmux binary name or path.
func (c *Client) Binary() string {
	return c.binary
}

// run executes a tmux subcommand with the socket flags prepended.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := make([]string, 0, len(c.socketArgs)+len(args))
	full = append(full, c.socketArgs...)
	full = append(full, args...)
	return c.runner.Run(ctx, c.binary, full...)
}

// toolError classifies a failed invocation as KindExternalTool.
func toolError(op werrors.Op, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return werrors.E(op, werrors.KindExternalTool, "tmux binary not found", err)
	}
	return werrors.E(op, werrors.KindExternalTool, err)
}

// isMissing reports whether tmux failed because the server, session or
// window does not exist.
func isMissing(err error) bool {
	if err == nil || errors.Is(err, exec.ErrNotFound) {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"can't find session",
		"can't find window",
		"no server running",
		"error connecting to",
		"session not found",
		"window not found",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// exactSession returns a target that matches name exactly; a bare name
// would prefix-match "main" against "main-client-42".
func exactSession(name string) string {
	return "=" + name
}

// windowTarget addresses w inside session, by id when known.
func windowTarget(session string, w Window) string {
	if w.ID != "" {
		return exactSession(session) + ":" + w.ID
	}
	return exactSession(session) + ":=" + w.Name
}

// SessionExists reports whether a session named exactly name exists.
// A stopped server counts as "no".
func (c *Client) SessionExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "has-session", "-t", exactSession(name))
	if err == nil {
		return true, nil
	}
	if isMissing(err) {
		return false, nil
	}
	return false, toolError("tmux.SessionExists", err)
}

// CreateSession creates a detached session whose first window is named
// windowName and starts in startDir.
func (c *Client) CreateSession(ctx context.Context, name, startDir, windowName string) (Window, error) {
	var args []string
	if c.configFile != "" {
		args = append(args, "-f", c.configFile)
	}
	args = append(args, "new-session", "-d", "-s", name, "-n", windowName)
	if startDir != "" {
		args = append(args, "-c", startDir)
	}
	args = append(args, "-P", "-F", "#{window_id}")

	out, err := c.run(ctx, args...)
	if err != nil {
		return Window{}, werrors.E(werrors.Op("tmux.CreateSession"), werrors.KindSpawn,
			"session "+name, toolError("tmux.new-session", err))
	}
	return Window{ID: strings.TrimSpace(out), Name: windowName}, nil
}

// CreateGroupedSession creates a detached session grouped with target: it
// shares target's windows but has its own current window.
func (c *Client) CreateGroupedSession(ctx context.Context, name, target string) error {
	var args []string
	if c.configFile != "" {
		args = append(args, "-f", c.configFile)
	}
	args = append(args, "new-session", "-d", "-s", name, "-t", exactSession(target))
	if _, err := c.run(ctx, args...); err != nil {
		return werrors.E(werrors.Op("tmux.CreateGroupedSession"), werrors.KindSpawn,
			"session "+name, toolError("tmux.new-session", err))
	}
	return nil
}

// CreateWindow adds a window to session without making it current.
func (c *Client) CreateWindow(ctx context.Context, session, name, startDir string) (Window, error) {
	args := []string{"new-window", "-d", "-t", exactSession(session) + ":", "-n", name}
	if startDir != "" {
		args = append(args, "-c", startDir)
	}
	args = append(args, "-P", "-F", "#{window_id}")

	out, err := c.run(ctx, args...)
	if err != nil {
		return Window{}, werrors.E(werrors.Op("tmux.CreateWindow"), werrors.KindSpawn,
			"window "+name, toolError("tmux.new-window", err))
	}
	return Window{ID: strings.TrimSpace(out), Name: name}, nil
}

// ListWindows returns session's windows in server order.
func (c *Client) ListWindows(ctx context.Context, session string) ([]Window, error) {
	out, err := c.run(ctx, "list-windows", "-t", exactSession(session), "-F", "#{window_id}\t#{window_name}")
	if err != nil {
		return nil, toolError("tmux.ListWindows", err)
	}
	var windows []Window
	for line := range strings.SplitSeq(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		id, name, _ := strings.Cut(line, "\t")
		windows = append(windows, Window{ID: id, Name: name})
	}
	return windows, nil
}

// ListWindowNames returns the names of session's windows in server order.
func (c *Client) ListWindowNames(ctx context.Context, session string) ([]string, error) {
	windows, err := c.ListWindows(ctx, session)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(windows))
	for i, w := range windows {
		names[i] = w.Name
	}
	return names, nil
}

// WindowOption reads a window user option. An option set to "" reports
// ok=true; an unset option or a window that vanished reports ok=false.
func (c *Client) WindowOption(ctx context.Context, session string, w Window, key string) (value string, ok bool, err error) {
	out, err := c.run(ctx, "show-options", "-w", "-q", "-v", "-t", windowTarget(session, w), key)
	if err != nil {
		if isMissing(err) {
			return "", false, nil
		}
		return "", false, toolError("tmux.WindowOption", err)
	}
	// tmux prints a bare newline for an option set to "" and nothing at
	// all for an unset one.
	return strings.TrimSuffix(out, "\n"), out != "", nil
}

// SetWindowOption sets a window user option.
func (c *Client) SetWindowOption(ctx context.Context, session string, w Window, key, value string) error {
	if _, err := c.run(ctx, "set-option", "-w", "-t", windowTarget(session, w), key, value); err != nil {
		return werrors.E(werrors.Op("tmux.SetWindowOption"), werrors.KindAttribute,
			"window "+w.Name, err)
	}
	return nil
}

// SelectWindow makes w the current window of session only.
func (c *Client) SelectWindow(ctx context.Context, session string, w Window) error {
	if _, err := c.run(ctx, "select-window", "-t", windowTarget(session, w)); err != nil {
		return toolError("tmux.SelectWindow", err)
	}
	return nil
}

// SendLiteral types text into w's active pane without key-name lookup,
// then presses Enter as a separate key event.
func (c *Client) SendLiteral(ctx context.Context, session string, w Window, text string) error {
	target := windowTarget(session, w)
	if _, err := c.run(ctx, "send-keys", "-t", target, "-l", "--", text); err != nil {
		return toolError("tmux.SendLiteral", err)
	}
	if _, err := c.run(ctx, "send-keys", "-t", target, "Enter"); err != nil {
		return toolError("tmux.SendLiteral", err)
	}
	return nil
}

// ListSessions returns every session on the server. A stopped server
// has no sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	out, err := c.run(ctx, "list-sessions", "-F",
		"#{session_name}\t#{session_group}\t#{session_attached}\t#{session_windows}")
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, toolError("tmux.ListSessions", err)
	}
	var sessions []Session
	for line := range strings.SplitSeq(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		for len(fields) < 4 {
			fields = append(fields, "")
		}
		attached, _ := strconv.Atoi(fields[2])
		windows, _ := strconv.Atoi(fields[3])
		sessions = append(sessions, Session{
			Name:     fields[0],
			Group:    fields[1],
			Attached: attached,
			Windows:  windows,
		})
	}
	return sessions, nil
}

// Version returns the output of `tmux -V`, e.g. "tmux 3.4".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, c.binary, "-V")
	if err != nil {
		return "", toolError("tmux.Version", err)
	}
	return strings.TrimSpace(out), nil
}

// AttachArgs returns the argv (without the binary) that attaches the
// calling terminal to session.
func (c *Client) AttachArgs(session string) []string {
	args := append([]string{}, c.socketArgs...)
	return append(args, "attach-session", "-t", exactSession(session))
}
