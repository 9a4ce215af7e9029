package config

import (
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeLocal_Nil(t *testing.T) {
	t.Parallel()

	global := &Config{Session: "main"}

	result := MergeLocal(global, nil)
	if result != global {
		t.Error("expected same pointer when local is nil")
	}
}

func TestMergeLocal_NoMutation(t *testing.T) {
	t.Parallel()

	global := &Config{
		BootstrapCD: true,
		Hooks: HooksConfig{
			Hooks: map[string]Hook{
				"test": {Command: "echo test"},
			},
		},
	}

	local := &LocalConfig{
		BootstrapCD: boolPtr(false),
		Hooks: HooksConfig{
			Hooks: map[string]Hook{
				"test":  {Enabled: boolPtr(false)},
				"extra": {Command: "echo extra"},
			},
		},
	}

	MergeLocal(global, local)

	if !global.BootstrapCD {
		t.Error("global bootstrap_cd was mutated")
	}
	if len(global.Hooks.Hooks) != 1 || global.Hooks.Hooks["test"].Command != "echo test" {
		t.Errorf("global hooks were mutated: %+v", global.Hooks.Hooks)
	}
}

func TestMergeLocal_Fields(t *testing.T) {
	t.Parallel()

	global := &Config{
		Session:     "main",
		BootstrapCD: true,
		Tmux:        TmuxConfig{Binary: "tmux", SocketName: "work"},
		Hooks:       HooksConfig{Hooks: map[string]Hook{}},
	}

	merged := MergeLocal(global, &LocalConfig{BootstrapCD: boolPtr(false)})
	if merged.BootstrapCD {
		t.Error("bootstrap_cd override not applied")
	}
	if merged.Session != "main" || merged.Tmux.SocketName != "work" {
		t.Errorf("global-only fields changed: %+v", merged)
	}

	merged = MergeLocal(global, &LocalConfig{})
	if !merged.BootstrapCD {
		t.Error("unset bootstrap_cd should inherit global")
	}
}

func TestMergeLocal_Hooks(t *testing.T) {
	t.Parallel()

	global := &Config{
		Hooks: HooksConfig{
			Hooks: map[string]Hook{
				"keep":     {Command: "echo keep", On: []string{"create"}},
				"override": {Command: "echo global", On: []string{"create"}},
				"disable":  {Command: "echo disable", On: []string{"attach"}},
			},
		},
	}
	local := &LocalConfig{
		Hooks: HooksConfig{
			Hooks: map[string]Hook{
				"override": {Command: "echo local", On: []string{"all"}},
				"disable":  {Enabled: boolPtr(false)},
				"new":      {Command: "echo new"},
			},
		},
	}

	hooks := MergeLocal(global, local).Hooks.Hooks

	if len(hooks) != 3 {
		t.Fatalf("got %d hooks, want 3: %+v", len(hooks), hooks)
	}
	if hooks["keep"].Command != "echo keep" {
		t.Errorf("keep = %+v", hooks["keep"])
	}
	if hooks["override"].Command != "echo local" {
		t.Errorf("override = %+v", hooks["override"])
	}
	if _, ok := hooks["disable"]; ok {
		t.Error("disabled hook still present")
	}
	if hooks["new"].Command != "echo new" {
		t.Errorf("new = %+v", hooks["new"])
	}
}
