package attach_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/raphi011/wsmux/internal/attach"
	werrors "github.com/raphi011/wsmux/internal/errors"
	"github.com/raphi011/wsmux/internal/tmux"
	"github.com/raphi011/wsmux/internal/tmux/tmuxtest"
)

type execCall struct {
	binary string
	args   []string
}

func recorder(calls *[]execCall, err error) attach.ExecFunc {
	return func(binary string, args []string) error {
		*calls = append(*calls, execCall{binary: binary, args: args})
		return err
	}
}

// setup returns a server with base session "main" holding windows app and lib.
func setup(t *testing.T) (*tmux.Client, *tmuxtest.Server, tmux.Window, tmux.Window) {
	t.Helper()
	srv := tmuxtest.New()
	client := tmux.New(tmux.Options{}, srv)
	ctx := context.Background()

	app, err := client.CreateSession(ctx, "main", "/src/app", "app")
	if err != nil {
		t.Fatal(err)
	}
	lib, err := client.CreateWindow(ctx, "main", "lib", "/src/lib")
	if err != nil {
		t.Fatal(err)
	}
	return client, srv, app, lib
}

func TestClientKey(t *testing.T) {
	t.Parallel()
	if got := attach.ClientKey("main", 4242); got != "main-client-4242" {
		t.Errorf("ClientKey = %q", got)
	}
}

func TestAttachTerminal(t *testing.T) {
	t.Parallel()
	client, srv, _, lib := setup(t)

	var calls []execCall
	a := attach.NewForPID(client, 100, recorder(&calls, nil))

	if err := a.AttachTerminal(context.Background(), "main", lib); err != nil {
		t.Fatalf("AttachTerminal: %v", err)
	}

	if !srv.HasSession("main-client-100") {
		t.Fatal("client session not created")
	}
	if got := srv.CurrentWindow("main-client-100"); got != lib.ID {
		t.Errorf("client current window = %s, want %s", got, lib.ID)
	}
	if len(calls) != 1 {
		t.Fatalf("exec calls = %d, want 1", len(calls))
	}
	want := []string{"attach-session", "-t", "=main-client-100"}
	if calls[0].binary != "tmux" || !slices.Equal(calls[0].args, want) {
		t.Errorf("exec = %+v, want tmux %v", calls[0], want)
	}
}

func TestAttachTerminal_ClientIsolation(t *testing.T) {
	t.Parallel()
	client, srv, app, lib := setup(t)
	ctx := context.Background()
	baseCurrent := srv.CurrentWindow("main")

	var calls []execCall
	first := attach.NewForPID(client, 1, recorder(&calls, nil))
	second := attach.NewForPID(client, 2, recorder(&calls, nil))

	if err := first.AttachTerminal(ctx, "main", app); err != nil {
		t.Fatal(err)
	}
	if err := second.AttachTerminal(ctx, "main", lib); err != nil {
		t.Fatal(err)
	}

	if got := srv.CurrentWindow("main-client-1"); got != app.ID {
		t.Errorf("terminal 1 shows %s, want %s", got, app.ID)
	}
	if got := srv.CurrentWindow("main-client-2"); got != lib.ID {
		t.Errorf("terminal 2 shows %s, want %s", got, lib.ID)
	}
	if got := srv.CurrentWindow("main"); got != baseCurrent {
		t.Errorf("base session current window changed to %s", got)
	}
}

func TestAttachTerminal_ReusesClientSession(t *testing.T) {
	t.Parallel()
	client, srv, app, lib := setup(t)
	ctx := context.Background()

	var calls []execCall
	a := attach.NewForPID(client, 7, recorder(&calls, nil))

	if err := a.AttachTerminal(ctx, "main", app); err != nil {
		t.Fatal(err)
	}
	if err := a.AttachTerminal(ctx, "main", lib); err != nil {
		t.Fatalf("second attach: %v", err)
	}

	if n := len(srv.CallsTo("new-session")); n != 2 {
		t.Errorf("new-session calls = %d, want 2 (base + one client)", n)
	}
	if got := srv.CurrentWindow("main-client-7"); got != lib.ID {
		t.Errorf("current window = %s, want %s", got, lib.ID)
	}
}

func TestAttachTerminal_FailuresStopBeforeExec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fail string
		kind werrors.Kind
	}{
		{"grouped session", "new-session", werrors.KindSpawn},
		{"select window", "select-window", werrors.KindExternalTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, srv, app, _ := setup(t)
			srv.Fail[tt.fail] = &tmuxtest.Error{Msg: "server exited unexpectedly"}

			var calls []execCall
			a := attach.NewForPID(client, 1, recorder(&calls, nil))

			err := a.AttachTerminal(context.Background(), "main", app)
			if !werrors.Is(err, tt.kind) {
				t.Errorf("AttachTerminal error = %v, want %v", err, tt.kind)
			}
			if len(calls) != 0 {
				t.Error("exec ran after a failure")
			}
		})
	}
}

func TestAttachTerminal_VanishedWindow(t *testing.T) {
	t.Parallel()
	client, srv, _, lib := setup(t)
	srv.KillWindow(lib.ID)

	var calls []execCall
	a := attach.NewForPID(client, 1, recorder(&calls, nil))

	if err := a.AttachTerminal(context.Background(), "main", lib); err == nil {
		t.Fatal("AttachTerminal succeeded for a window that no longer exists")
	}
	if len(calls) != 0 {
		t.Error("exec ran after a failure")
	}
}

func TestAttachTerminal_ExecFailure(t *testing.T) {
	t.Parallel()
	client, _, app, _ := setup(t)

	var calls []execCall
	a := attach.NewForPID(client, 1, recorder(&calls, errors.New("exec format error")))

	err := a.AttachTerminal(context.Background(), "main", app)
	if !werrors.Is(err, werrors.KindExternalTool) {
		t.Errorf("AttachTerminal error = %v, want KindExternalTool", err)
	}
}

func TestAttachTerminal_SocketArgs(t *testing.T) {
	t.Parallel()
	srv := tmuxtest.New()
	client := tmux.New(tmux.Options{Binary: "/opt/bin/tmux", SocketName: "work"}, srv)
	ctx := context.Background()
	w, err := client.CreateSession(ctx, "dev", "/src", "src")
	if err != nil {
		t.Fatal(err)
	}

	var calls []execCall
	if err := attach.NewForPID(client, 9, recorder(&calls, nil)).AttachTerminal(ctx, "dev", w); err != nil {
		t.Fatal(err)
	}

	want := []string{"-L", "work", "attach-session", "-t", "=dev-client-9"}
	if calls[0].binary != "/opt/bin/tmux" || !slices.Equal(calls[0].args, want) {
		t.Errorf("exec = %+v, want /opt/bin/tmux %v", calls[0], want)
	}
}

func TestExec_MissingBinary(t *testing.T) {
	t.Parallel()
	if err := attach.Exec("wsmux-definitely-not-a-binary", nil); err == nil {
		t.Fatal("Exec returned nil for a missing binary")
	}
}
