// Package tmuxtest provides an in-memory tmux server for tests.
//
// Server implements tmux.Runner and understands the subset of the tmux
// command line that the tmux package emits: sessions (including grouped
// sessions), windows with ids, window user options, select-window and
// send-keys. Each window's pane behaves like a minimal shell that only
// understands `cd -- WORD`, where WORD is built from single-quoted
// segments and \' or \\ escapes. Anything else typed into a pane is
// recorded in Pane.Executed, so tests can tell a path that was taken
// literally from one that leaked into command position.
package tmuxtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Error is returned for failed commands. Its message mimics tmux's stderr.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Pane is the single pane of a fake window.
type Pane struct {
	Cwd      string
	Typed    string   // literal text not yet submitted
	Executed []string // submitted lines the fake shell did not understand
}

type window struct {
	id      string
	name    string
	options map[string]string
	pane    *Pane
}

type group struct {
	windows []*window
}

type session struct {
	name    string
	group   *group
	grouped bool
	current string // window id
}

// Server is a fake tmux server. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	sessions []*session
	nextID   int

	// Calls records every invocation's argv (without the binary).
	Calls [][]string

	// Fail makes a subcommand fail with the given error instead of running.
	Fail map[string]error

	// BeforeRun, when set, runs before each command with its argv. It is
	// called without the lock held, so it may call other Server methods.
	BeforeRun func(args []string)

	// Version is returned for `tmux -V`.
	Version string
}

// New returns an empty server (no sessions, as if not running).
func New() *Server {
	return &Server{Fail: map[string]error{}, Version: "tmux 3.4"}
}

// Run implements tmux.Runner.
func (s *Server) Run(_ context.Context, _ string, args ...string) (string, error) {
	if s.BeforeRun != nil {
		s.BeforeRun(args)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, slices.Clone(args))

	args = stripGlobalFlags(args)
	if len(args) == 0 {
		return "", &Error{Msg: "usage: tmux [-L socket-name] [-S socket-path] command"}
	}
	sub, rest := args[0], args[1:]
	if err, ok := s.Fail[sub]; ok {
		return "", err
	}

	switch sub {
	case "-V":
		return s.Version + "\n", nil
	case "has-session":
		return s.hasSession(rest)
	case "new-session":
		return s.newSession(rest)
	case "new-window":
		return s.newWindow(rest)
	case "list-windows":
		return s.listWindows(rest)
	case "list-sessions":
		return s.listSessions(rest)
	case "show-options":
		return s.showOptions(rest)
	case "set-option":
		return s.setOption(rest)
	case "select-window":
		return s.selectWindow(rest)
	case "send-keys":
		return s.sendKeys(rest)
	}
	return "", &Error{Msg: "unknown command: " + sub}
}

// stripGlobalFlags drops -L/-S/-f and their values ahead of the subcommand.
func stripGlobalFlags(args []string) []string {
	for len(args) >= 2 && (args[0] == "-L" || args[0] == "-S" || args[0] == "-f") {
		args = args[2:]
	}
	return args
}

// flags is a tiny getopt: boolean flags and flags taking a value.
type flags struct {
	set  map[string]bool
	val  map[string]string
	args []string
}

func parseFlags(args []string, withValue string) flags {
	f := flags{set: map[string]bool{}, val: map[string]string{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			f.args = append(f.args, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			f.args = append(f.args, args[i:]...)
			break
		}
		for j := 1; j < len(a); j++ {
			c := string(a[j])
			if strings.Contains(withValue, c) {
				if j+1 < len(a) {
					f.val[c] = a[j+1:]
				} else if i+1 < len(args) {
					i++
					f.val[c] = args[i]
				}
				break
			}
			f.set[c] = true
		}
	}
	return f
}

func (s *Server) findSession(target string) *session {
	exact := strings.HasPrefix(target, "=")
	name := strings.TrimPrefix(target, "=")
	for _, sess := range s.sessions {
		if sess.name == name {
			return sess
		}
	}
	if exact {
		return nil
	}
	// tmux falls back to prefix matching for bare names.
	for _, sess := range s.sessions {
		if strings.HasPrefix(sess.name, name) {
			return sess
		}
	}
	return nil
}

func (s *Server) lookupSession(target string) (*session, error) {
	if len(s.sessions) == 0 {
		return nil, &Error{Msg: "no server running on /tmp/tmux-1000/default"}
	}
	sess := s.findSession(target)
	if sess == nil {
		return nil, &Error{Msg: "can't find session: " + strings.TrimPrefix(target, "=")}
	}
	return sess, nil
}

// lookupWindow resolves "sess:@id" or "sess:=name".
func (s *Server) lookupWindow(target string) (*session, *window, error) {
	sessPart, winPart, _ := strings.Cut(target, ":")
	sess, err := s.lookupSession(sessPart)
	if err != nil {
		return nil, nil, err
	}
	if winPart == "" {
		winPart = sess.current
	}
	for _, w := range sess.group.windows {
		if w.id == winPart || "="+w.name == winPart || w.name == winPart {
			return sess, w, nil
		}
	}
	return nil, nil, &Error{Msg: "can't find window: " + winPart}
}

func (s *Server) newWindowLocked(name, dir string) *window {
	s.nextID++
	return &window{
		id:      fmt.Sprintf("@%d", s.nextID),
		name:    name,
		options: map[string]string{},
		pane:    &Pane{Cwd: dir},
	}
}

func (s *Server) hasSession(args []string) (string, error) {
	f := parseFlags(args, "t")
	_, err := s.lookupSession(f.val["t"])
	return "", err
}

func (s *Server) newSession(args []string) (string, error) {
	f := parseFlags(args, "sntcFxy")
	name := f.val["s"]
	if name == "" {
		name = fmt.Sprintf("%d", len(s.sessions))
	}
	if s.findSession("="+name) != nil {
		return "", &Error{Msg: "duplicate session: " + name}
	}
	sess := &session{name: name}
	if target, ok := f.val["t"]; ok {
		base, err := s.lookupSession(target)
		if err != nil {
			return "", err
		}
		sess.group = base.group
		sess.grouped = true
		base.grouped = true
		sess.current = base.current
	} else {
		w := s.newWindowLocked(f.val["n"], f.val["c"])
		sess.group = &group{windows: []*window{w}}
		sess.current = w.id
	}
	s.sessions = append(s.sessions, sess)
	if f.set["P"] {
		return s.format(f.val["F"], sess, s.currentWindow(sess)) + "\n", nil
	}
	return "", nil
}

func (s *Server) newWindow(args []string) (string, error) {
	f := parseFlags(args, "tncF")
	sessPart, _, _ := strings.Cut(f.val["t"], ":")
	sess, err := s.lookupSession(sessPart)
	if err != nil {
		return "", err
	}
	w := s.newWindowLocked(f.val["n"], f.val["c"])
	sess.group.windows = append(sess.group.windows, w)
	if !f.set["d"] {
		sess.current = w.id
	}
	if f.set["P"] {
		return s.format(f.val["F"], sess, w) + "\n", nil
	}
	return "", nil
}

func (s *Server) listWindows(args []string) (string, error) {
	f := parseFlags(args, "tF")
	sess, err := s.lookupSession(f.val["t"])
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, w := range sess.group.windows {
		b.WriteString(s.format(f.val["F"], sess, w))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (s *Server) listSessions(args []string) (string, error) {
	f := parseFlags(args, "F")
	if len(s.sessions) == 0 {
		return "", &Error{Msg: "no server running on /tmp/tmux-1000/default"}
	}
	var b strings.Builder
	for _, sess := range s.sessions {
		b.WriteString(s.format(f.val["F"], sess, s.currentWindow(sess)))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (s *Server) showOptions(args []string) (string, error) {
	f := parseFlags(args, "t")
	_, w, err := s.lookupWindow(f.val["t"])
	if err != nil {
		return "", err
	}
	if len(f.args) == 0 {
		return "", &Error{Msg: "fake: show-options needs an option name"}
	}
	v, ok := w.options[f.args[0]]
	if !ok {
		if f.set["q"] {
			return "", nil
		}
		return "", &Error{Msg: "invalid option: " + f.args[0]}
	}
	return v + "\n", nil
}

func (s *Server) setOption(args []string) (string, error) {
	f := parseFlags(args, "t")
	_, w, err := s.lookupWindow(f.val["t"])
	if err != nil {
		return "", err
	}
	if len(f.args) != 2 {
		return "", &Error{Msg: "fake: set-option needs option and value"}
	}
	w.options[f.args[0]] = f.args[1]
	return "", nil
}

func (s *Server) selectWindow(args []string) (string, error) {
	f := parseFlags(args, "t")
	sess, w, err := s.lookupWindow(f.val["t"])
	if err != nil {
		return "", err
	}
	sess.current = w.id
	return "", nil
}

func (s *Server) sendKeys(args []string) (string, error) {
	f := parseFlags(args, "t")
	_, w, err := s.lookupWindow(f.val["t"])
	if err != nil {
		return "", err
	}
	if f.set["l"] {
		w.pane.Typed += strings.Join(f.args, " ")
		return "", nil
	}
	for _, key := range f.args {
		if key == "Enter" || key == "C-m" {
			w.pane.submit()
		}
	}
	return "", nil
}

func (s *Server) currentWindow(sess *session) *window {
	for _, w := range sess.group.windows {
		if w.id == sess.current {
			return w
		}
	}
	return nil
}

func (s *Server) format(f string, sess *session, w *window) string {
	groupName := ""
	if sess.grouped {
		groupName = s.groupLeader(sess.group)
	}
	r := []string{
		"#{session_name}", sess.name,
		"#{session_group}", groupName,
		"#{session_attached}", "0",
		"#{session_windows}", fmt.Sprint(len(sess.group.windows)),
	}
	if w != nil {
		r = append(r, "#{window_id}", w.id, "#{window_name}", w.name)
	}
	return strings.NewReplacer(r...).Replace(f)
}

func (s *Server) groupLeader(g *group) string {
	for _, sess := range s.sessions {
		if sess.group == g {
			return sess.name
		}
	}
	return ""
}

// submit runs the typed line through the fake shell.
func (p *Pane) submit() {
	line := p.Typed
	p.Typed = ""
	if dir, ok := parseCd(line); ok {
		p.Cwd = dir
		return
	}
	p.Executed = append(p.Executed, line)
}

// parseCd accepts exactly `cd -- WORD` with WORD made of single-quoted
// segments joined by \' and \\ escapes.
func parseCd(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "cd -- ")
	if !ok {
		return "", false
	}
	var b strings.Builder
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, `\'`):
			b.WriteByte('\'')
			rest = rest[2:]
		case strings.HasPrefix(rest, `\\`):
			b.WriteByte('\\')
			rest = rest[2:]
		case rest[0] == '\'':
			end := strings.IndexByte(rest[1:], '\'')
			if end < 0 {
				return "", false
			}
			b.WriteString(rest[1 : 1+end])
			rest = rest[2+end:]
		default:
			return "", false
		}
	}
	return b.String(), true
}

// --- inspection helpers ---

// Windows returns the ids and names of session's windows.
func (s *Server) Windows(sessionName string) [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.findSession("=" + sessionName)
	if sess == nil {
		return nil
	}
	var out [][2]string
	for _, w := range sess.group.windows {
		out = append(out, [2]string{w.id, w.name})
	}
	return out
}

// Option returns a window option by window id.
func (s *Server) Option(windowID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := s.windowByID(windowID); w != nil {
		v, ok := w.options[key]
		return v, ok
	}
	return "", false
}

// Pane returns a copy of the pane of the window with the given id.
func (s *Server) Pane(windowID string) (Pane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := s.windowByID(windowID); w != nil {
		p := *w.pane
		p.Executed = slices.Clone(w.pane.Executed)
		return p, true
	}
	return Pane{}, false
}

// CurrentWindow returns the id of session's current window.
func (s *Server) CurrentWindow(sessionName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.findSession("=" + sessionName); sess != nil {
		return sess.current
	}
	return ""
}

// HasSession reports whether sessionName exists.
func (s *Server) HasSession(sessionName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSession("="+sessionName) != nil
}

// KillWindow removes a window from every session sharing it.
func (s *Server) KillWindow(windowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.group.windows = slices.DeleteFunc(sess.group.windows, func(w *window) bool {
			return w.id == windowID
		})
	}
}

// AddWindow creates a window directly (as another tmux client would),
// returning its id. The session must exist.
func (s *Server) AddWindow(sessionName, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.findSession("=" + sessionName)
	if sess == nil {
		return "", errors.New("tmuxtest: no session " + sessionName)
	}
	w := s.newWindowLocked(name, "")
	sess.group.windows = append(sess.group.windows, w)
	return w.id, nil
}

// SetOption sets a window option directly.
func (s *Server) SetOption(windowID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := s.windowByID(windowID); w != nil {
		w.options[key] = value
	}
}

// CallsTo returns the recorded invocations of one subcommand.
func (s *Server) CallsTo(sub string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][]string
	for _, c := range s.Calls {
		if args := stripGlobalFlags(c); len(args) > 0 && args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) windowByID(id string) *window {
	for _, sess := range s.sessions {
		for _, w := range sess.group.windows {
			if w.id == id {
				return w
			}
		}
	}
	return nil
}
