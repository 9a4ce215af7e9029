package shell

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Markers delimit the block that `wsmux install` manages in an rc file.
const (
	StartMarker = "# >>> wsmux >>>"
	EndMarker   = "# <<< wsmux <<<"
)

// Supported shells.
const (
	Bash = "bash"
	Zsh  = "zsh"
	Fish = "fish"
)

const posixSnippet = `# wsmux: open every interactive terminal in its workspace's tmux window.
# Install: eval "$(wsmux init %[1]s)"
if [[ $- == *i* ]] && [[ -z "$TMUX" ]] && command -v wsmux >/dev/null 2>&1; then
    wsmux connect && exit
fi
`

const fishSnippet = `# wsmux: open every interactive terminal in its workspace's tmux window.
# Install: wsmux init fish | source
if status is-interactive; and not set -q TMUX; and command -q wsmux
    wsmux connect; and exit
end
`

// Snippet returns the rc snippet for sh. The snippet execs into tmux
// through `wsmux connect` and exits the shell when tmux detaches; when
// connect declines, the shell starts normally.
func Snippet(sh string) (string, error) {
	switch sh {
	case Bash, Zsh:
		return fmt.Sprintf(posixSnippet, sh), nil
	case Fish:
		return fishSnippet, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", sh)
	}
}

// RCFile returns the startup file wsmux installs into for sh.
func RCFile(sh, home string) string {
	switch sh {
	case Zsh:
		return filepath.Join(home, ".zshrc")
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return filepath.Join(home, ".bashrc")
	}
}

// Detect returns the shell named by a $SHELL value, or "" when it is not
// one wsmux supports.
func Detect(shellEnv string) string {
	name := strings.TrimPrefix(filepath.Base(shellEnv), "-")
	switch name {
	case Bash, Zsh, Fish:
		return name
	}
	return ""
}
