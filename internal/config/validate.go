package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Hook triggers.
const (
	TriggerCreate = "create"
	TriggerAttach = "attach"
	TriggerAll    = "all"
)

// Valid enum values for configuration fields.
var (
	ValidHookTriggers = []string{TriggerCreate, TriggerAttach, TriggerAll}
	ValidShells       = []string{"bash", "zsh", "fish"}
)

// ValidateShell validates a shell name against ValidShells.
// Exported for use in CLI argument validation.
func ValidateShell(shell string) error {
	if shell == "" {
		return fmt.Errorf("shell must be one of %s", formatOptions(ValidShells))
	}
	return validateEnum(shell, "shell", ValidShells)
}

// ValidateSessionName checks a tmux session name. tmux reserves ':' and
// '.' in targets, and whitespace breaks the rc snippet.
func ValidateSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("session must not be empty")
	}
	for _, r := range name {
		if r == ':' || r == '.' || unicode.IsSpace(r) {
			return fmt.Errorf("invalid session %q: must not contain %q", name, r)
		}
	}
	return nil
}

func validate(cfg *Config) error {
	if err := ValidateSessionName(cfg.Session); err != nil {
		return err
	}
	if !strings.HasPrefix(cfg.WindowOption, "@") || len(cfg.WindowOption) < 2 {
		return fmt.Errorf("invalid window_option %q: user options must start with \"@\"", cfg.WindowOption)
	}
	if err := ValidatePath(cfg.Tmux.SocketPath, "tmux.socket_path"); err != nil {
		return err
	}
	if err := ValidatePath(cfg.Tmux.ConfigFile, "tmux.config_file"); err != nil {
		return err
	}
	if err := ValidatePath(cfg.Lock.Dir, "lock.dir"); err != nil {
		return err
	}
	return validateHooks(cfg.Hooks, "")
}

// validateHooks checks hook triggers and that enabled hooks have a command.
func validateHooks(hc HooksConfig, contextInfo string) error {
	where := ""
	if contextInfo != "" {
		where = " in " + contextInfo
	}
	for name, hook := range hc.Hooks {
		for _, on := range hook.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookTriggers); err != nil {
				return fmt.Errorf("%w%s", err, where)
			}
		}
		if hook.IsEnabled() && strings.TrimSpace(hook.Command) == "" {
			return fmt.Errorf("hooks.%s has no command%s", name, where)
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
