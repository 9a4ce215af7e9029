package lock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileLock_LockUnlock(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "nested", "main.lock")
	lock := NewFileLock(lockPath)

	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file should exist after locking: %v", err)
	}
	if lock.file == nil {
		t.Error("expected file handle to be set after locking")
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if lock.file != nil {
		t.Error("expected file handle to be nil after unlocking")
	}
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	t.Parallel()

	lock := NewFileLock(filepath.Join(t.TempDir(), "never.lock"))
	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock() without Lock() should not error, got %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Errorf("second Unlock() should not error, got %v", err)
	}
}

func TestFileLock_Blocks(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "main.lock")

	lock1 := NewFileLock(lockPath)
	if err := lock1.Lock(); err != nil {
		t.Fatalf("lock1 Lock() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		lock2 := NewFileLock(lockPath)
		if err := lock2.Lock(); err != nil {
			t.Errorf("lock2 Lock() error = %v", err)
			close(done)
			return
		}
		lock2.Unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("lock2 should have blocked while lock1 is held")
	case <-time.After(30 * time.Millisecond):
	}

	if err := lock1.Unlock(); err != nil {
		t.Fatalf("lock1 Unlock() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("lock2 should have acquired lock after lock1 released")
	}
}

func TestFileLock_InvalidPath(t *testing.T) {
	t.Parallel()

	// A regular file where the lock's directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	lock := NewFileLock(filepath.Join(blocker, "main.lock"))
	if err := lock.Lock(); err == nil {
		lock.Unlock()
		t.Error("expected error for lock below a regular file")
	}
}

func TestPathFor(t *testing.T) {
	t.Parallel()

	got := PathFor("/run/user/1000", "main")
	if got != "/run/user/1000/wsmux-main.lock" {
		t.Errorf("PathFor = %q", got)
	}

	got = PathFor("/tmp", "odd name/with slash")
	if filepath.Dir(got) != "/tmp" || strings.ContainsAny(filepath.Base(got), " /") {
		t.Errorf("PathFor with unsafe session = %q", got)
	}
}
