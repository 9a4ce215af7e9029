package doctor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/rcblock"
	"github.com/raphi011/wsmux/internal/shell"
	"github.com/raphi011/wsmux/internal/tmux"
	"github.com/raphi011/wsmux/internal/tmux/tmuxtest"
	"github.com/raphi011/wsmux/internal/workspace"
)

func newInput(t *testing.T, srv *tmuxtest.Server) Input {
	t.Helper()
	client := tmux.New(tmux.Options{}, srv)
	return Input{
		Config:  config.Default(),
		Mux:     client,
		Windows: workspace.NewResolver(client, workspace.Options{}),
	}
}

func find(r Report, name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

func TestRun_NoServer(t *testing.T) {
	t.Parallel()

	r := Run(context.Background(), newInput(t, tmuxtest.New()))

	if res, _ := find(r, "tmux"); res.Status != StatusOK || res.Detail != "tmux 3.4" {
		t.Errorf("tmux = %+v", res)
	}
	if res, _ := find(r, "session"); res.Status != StatusInfo {
		t.Errorf("session = %+v, want info", res)
	}
	if _, ok := find(r, "workspaces"); ok {
		t.Error("workspaces checked without a session")
	}
	if res, _ := find(r, "clients"); !strings.HasPrefix(res.Detail, "0 client sessions") {
		t.Errorf("clients = %+v", res)
	}
	if r.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", r.Failed())
	}
}

func TestRun_MissingTmux(t *testing.T) {
	t.Parallel()

	srv := tmuxtest.New()
	srv.Fail["-V"] = errors.New("exec: \"tmux\": executable file not found in $PATH")

	r := Run(context.Background(), newInput(t, srv))

	if res, _ := find(r, "tmux"); res.Status != StatusFail {
		t.Errorf("tmux = %+v, want fail", res)
	}
	if _, ok := find(r, "session"); ok {
		t.Error("session checked without tmux")
	}
	if _, ok := find(r, "shell"); !ok {
		t.Error("rc check skipped")
	}
	if r.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", r.Failed())
	}
}

func TestRun_DuplicatesAndClients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := tmuxtest.New()
	in := newInput(t, srv)
	client := tmux.New(tmux.Options{}, srv)

	first, err := client.CreateSession(ctx, "main", "", "app")
	if err != nil {
		t.Fatal(err)
	}
	second, err := srv.AddWindow("main", "app-2")
	if err != nil {
		t.Fatal(err)
	}
	srv.SetOption(first.ID, workspace.DefaultOptionKey, "/src/app")
	srv.SetOption(second, workspace.DefaultOptionKey, "/src/app")
	if err := client.CreateGroupedSession(ctx, "main-client-1", "main"); err != nil {
		t.Fatal(err)
	}
	if err := client.CreateGroupedSession(ctx, "main-client-2", "main"); err != nil {
		t.Fatal(err)
	}

	r := Run(ctx, in)

	if res, _ := find(r, "session"); res.Status != StatusOK || res.Detail != "main (2 windows)" {
		t.Errorf("session = %+v", res)
	}
	dup, ok := find(r, "duplicate")
	if !ok || dup.Status != StatusWarn {
		t.Fatalf("duplicate = %+v, want warning", dup)
	}
	if want := "/src/app is tagged on " + first.ID + ", " + second; !strings.HasPrefix(dup.Detail, want) {
		t.Errorf("duplicate detail = %q, want prefix %q", dup.Detail, want)
	}
	if res, _ := find(r, "clients"); res.Detail != "2 client sessions, 0 attached" {
		t.Errorf("clients = %+v", res)
	}
}

func TestRun_NoDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := tmuxtest.New()
	client := tmux.New(tmux.Options{}, srv)
	w, err := client.CreateSession(ctx, "main", "", "app")
	if err != nil {
		t.Fatal(err)
	}
	srv.SetOption(w.ID, workspace.DefaultOptionKey, "/src/app")
	if _, err := srv.AddWindow("main", "scratch"); err != nil {
		t.Fatal(err)
	}

	r := Run(ctx, newInput(t, srv))

	if res, _ := find(r, "workspaces"); res.Status != StatusOK || res.Detail != "1 tagged windows, no duplicates" {
		t.Errorf("workspaces = %+v", res)
	}
}

func TestRun_Config(t *testing.T) {
	t.Parallel()

	in := newInput(t, tmuxtest.New())
	in.ConfigErr = errors.New("bad config")
	if res, _ := find(Run(context.Background(), in), "config"); res.Status != StatusFail {
		t.Errorf("config = %+v, want fail", res)
	}

	in.ConfigErr = nil
	in.ConfigPath = "/home/u/.config/wsmux/config.toml"
	if res, _ := find(Run(context.Background(), in), "config"); res.Status != StatusOK {
		t.Errorf("config = %+v, want ok", res)
	}
}

func TestRun_RCBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bashrc := filepath.Join(dir, ".bashrc")
	zshrc := filepath.Join(dir, ".zshrc")
	if err := os.WriteFile(bashrc, []byte("alias ll='ls -l'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	in := newInput(t, tmuxtest.New())
	in.RCFiles = []string{bashrc, zshrc}

	if res, _ := find(Run(context.Background(), in), "shell"); res.Status != StatusWarn {
		t.Errorf("shell = %+v, want warning", res)
	}

	if _, err := rcblock.Upsert(zshrc, shell.StartMarker, shell.EndMarker, "wsmux connect && exit"); err != nil {
		t.Fatal(err)
	}
	res, _ := find(Run(context.Background(), in), "shell")
	if res.Status != StatusOK || !strings.Contains(res.Detail, zshrc) {
		t.Errorf("shell = %+v, want installed in %s", res, zshrc)
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Print(&buf, Report{Results: []Result{
		{Name: "tmux", Status: StatusOK, Detail: "tmux 3.4"},
		{Name: "duplicate", Status: StatusWarn, Detail: "/src/app"},
	}})

	out := buf.String()
	for _, want := range []string{"tmux: tmux 3.4", "duplicate: /src/app", "Found 1 warning(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
