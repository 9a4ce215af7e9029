package config

import (
	"context"
	"os"
	"testing"
)

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("attached", func(t *testing.T) {
		cfg := Default()
		cfg.Session = "dev"
		got := FromContext(WithConfig(context.Background(), &cfg))
		if got.Session != "dev" {
			t.Errorf("Session = %q, want dev", got.Session)
		}
	})

	t.Run("missing falls back to defaults", func(t *testing.T) {
		if got := FromContext(context.Background()); got.Session != DefaultSession {
			t.Errorf("Session = %q, want %q", got.Session, DefaultSession)
		}
	})
}

func TestWithWorkDir_FromContext(t *testing.T) {
	t.Parallel()

	if got := WorkDirFromContext(WithWorkDir(context.Background(), "/custom/path")); got != "/custom/path" {
		t.Errorf("WorkDirFromContext = %q", got)
	}

	wd, _ := os.Getwd()
	if got := WorkDirFromContext(WithWorkDir(context.Background(), "")); got != wd {
		t.Errorf("WorkDirFromContext(empty) = %q, want %q", got, wd)
	}
}
