package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "config.toml")

	if err := WriteFile(path, []byte("session = \"dev\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed to create directories: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "session = \"dev\"\n" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestWriteFile_KeepsMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".bashrc")
	if err := os.WriteFile(path, []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want existing 0600 kept", info.Mode().Perm())
	}
}

func TestWriteFile_NoTempLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".zshrc")

	for _, content := range []string{"v1\n", "v2\n"} {
		if err := WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only .zshrc", names)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "v2\n" {
		t.Errorf("content = %q, want v2", data)
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	data, err := ReadFile(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ReadFile error = %v, want nil for missing file", err)
	}
	if data != nil {
		t.Errorf("data = %q, want nil", data)
	}
}
