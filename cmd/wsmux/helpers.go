package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/raphi011/wsmux/internal/attach"
	"github.com/raphi011/wsmux/internal/config"
	"github.com/raphi011/wsmux/internal/guard"
	"github.com/raphi011/wsmux/internal/lock"
	"github.com/raphi011/wsmux/internal/log"
	"github.com/raphi011/wsmux/internal/tmux"
	"github.com/raphi011/wsmux/internal/workspace"
)

// Replaced in tests.
var (
	tmuxRunner tmux.Runner // nil runs the real binary
	execTmux   attach.ExecFunc = attach.Exec
	guardInput                 = guard.FromEnv
)

// newClient returns a tmux client for the configured server.
func newClient(cfg *config.Config) *tmux.Client {
	return tmux.New(tmux.Options{
		Binary:     cfg.Tmux.Binary,
		SocketName: cfg.Tmux.SocketName,
		SocketPath: cfg.Tmux.SocketPath,
		ConfigFile: cfg.Tmux.ConfigFile,
	}, tmuxRunner)
}

// newResolver returns a resolver honoring the window option, bootstrap
// and lock settings.
func newResolver(cfg *config.Config, client *tmux.Client) *workspace.Resolver {
	opts := workspace.Options{
		OptionKey: cfg.WindowOption,
		Bootstrap: cfg.BootstrapCD,
	}
	if cfg.Lock.Enabled {
		dir := cfg.Lock.Dir
		opts.Lock = func(session string) workspace.Locker {
			return lock.NewFileLock(lock.PathFor(dir, session))
		}
	}
	return workspace.NewResolver(client, opts)
}

// effectiveConfig merges the workspace's .wsmux.toml into cfg. A broken
// local file is reported and ignored.
func effectiveConfig(ctx context.Context, cfg *config.Config, workspacePath string) *config.Config {
	info, err := os.Stat(workspacePath)
	if err != nil || !info.IsDir() {
		return cfg
	}
	local, err := config.LoadLocal(workspacePath)
	if err != nil {
		log.FromContext(ctx).Warnf("%v", err)
		return cfg
	}
	return config.MergeLocal(cfg, local)
}

// workspacePath returns arg made absolute, or the workspace of the
// current process when arg is empty. Environment values are used as is:
// they are the tag.
func workspacePath(ctx context.Context, cfg *config.Config, arg string) string {
	if arg == "" {
		return cfg.WorkspacePath(os.Getenv, config.WorkDirFromContext(ctx))
	}
	if filepath.IsAbs(arg) {
		return filepath.Clean(arg)
	}
	return filepath.Join(config.WorkDirFromContext(ctx), arg)
}
