package config

import "maps"

// MergeLocal applies a workspace's .wsmux.toml on top of global and
// returns the result. global is never modified; a nil local returns it
// as is.
//
// Only hooks and bootstrap_cd can be overridden; a local hook with
// enabled = false removes the global one.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global
	merged.Hooks = HooksConfig{Hooks: maps.Clone(global.Hooks.Hooks)}
	if merged.Hooks.Hooks == nil {
		merged.Hooks.Hooks = map[string]Hook{}
	}
	for name, hook := range local.Hooks.Hooks {
		if hook.IsEnabled() {
			merged.Hooks.Hooks[name] = hook
		} else {
			delete(merged.Hooks.Hooks, name)
		}
	}

	if local.BootstrapCD != nil {
		merged.BootstrapCD = *local.BootstrapCD
	}
	return &merged
}
