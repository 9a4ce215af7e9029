package main

import (
	"strings"
	"testing"

	"github.com/raphi011/wsmux/internal/workspace"
)

func TestWindows(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")
	env := newTestEnv(t, nil, t.TempDir())
	api := mkWorkspace(t, "api")
	web := mkWorkspace(t, "web")
	for _, dir := range []string{api, web} {
		if err := env.run(newResolveCmd(), "--no-hooks", dir); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := env.srv.AddWindow("main", "scratch"); err != nil {
		t.Fatal(err)
	}

	t.Run("all", func(t *testing.T) {
		env.stdout.Reset()
		if err := env.run(newWindowsCmd()); err != nil {
			t.Fatalf("windows: %v", err)
		}
		out := env.stdout.String()
		for _, want := range []string{"ID", "WORKSPACE", api, web, "scratch"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "\x1b[") {
			t.Errorf("colors written to a non-terminal:\n%q", out)
		}
	})

	t.Run("query", func(t *testing.T) {
		env.stdout.Reset()
		if err := env.run(newWindowsCmd(), "web"); err != nil {
			t.Fatalf("windows: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
		if len(lines) < 2 || !strings.Contains(lines[1], web) {
			t.Errorf("query web, want the web window first:\n%s", env.stdout)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		env.stdout.Reset()
		if err := env.run(newWindowsCmd(), "--duplicates"); err != nil {
			t.Fatalf("windows: %v", err)
		}
		if env.stdout.Len() != 0 {
			t.Errorf("--duplicates without duplicates printed:\n%s", env.stdout)
		}
	})
}

func TestWindows_Duplicates(t *testing.T) {
	env := newTestEnv(t, nil, t.TempDir())
	dir := mkWorkspace(t, "api")
	if err := env.run(newResolveCmd(), "--no-hooks", dir); err != nil {
		t.Fatal(err)
	}
	id, err := env.srv.AddWindow("main", "api-2")
	if err != nil {
		t.Fatal(err)
	}
	env.srv.SetOption(id, workspace.DefaultOptionKey, dir)
	if _, err := env.srv.AddWindow("main", "scratch"); err != nil {
		t.Fatal(err)
	}

	env.stdout.Reset()
	if err := env.run(newWindowsCmd(), "-d"); err != nil {
		t.Fatalf("windows: %v", err)
	}
	out := env.stdout.String()
	if strings.Count(out, dir) != 2 || strings.Contains(out, "scratch") {
		t.Errorf("duplicates:\n%s", out)
	}
}

func TestWindows_NoSession(t *testing.T) {
	env := newTestEnv(t, nil, t.TempDir())

	if err := env.run(newWindowsCmd()); err != nil {
		t.Fatalf("windows: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "No windows") {
		t.Errorf("stderr = %q", env.stderr)
	}
}
