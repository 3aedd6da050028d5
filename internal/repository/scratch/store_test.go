package scratch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "nested", "ai-chronicle"), zap.NewNop())
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return s
}

func TestEnsure_CreatesParentsAndIsIdempotent(t *testing.T) {
	s := newStore(t)

	if err := s.Ensure(); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	info, err := os.Stat(s.Dir())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("workspace is not a directory")
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
}

func TestEnsure_Unwritable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	parent := t.TempDir()
	if err := os.Chmod(parent, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(parent, 0o700) })

	s := New(filepath.Join(parent, "ws"), zap.NewNop())
	if err := s.Ensure(); err == nil {
		t.Fatal("expected error for unwritable location")
	}
}

func TestWrite_ReadRemove(t *testing.T) {
	s := newStore(t)

	path, err := s.Write([]byte("# Title"), "a.md")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("path %q is not absolute", path)
	}
	if filepath.Dir(path) != mustAbs(t, s.Dir()) {
		t.Errorf("path %q outside workspace %q", path, s.Dir())
	}
	if !strings.HasSuffix(path, "_a.md") {
		t.Errorf("path %q should keep the suggested name as suffix", path)
	}

	data, err := s.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "# Title" {
		t.Errorf("content = %q", data)
	}

	s.Remove(context.Background(), path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove: %v", err)
	}

	// Removing again is a no-op.
	s.Remove(context.Background(), path)
}

func TestWrite_NameCannotEscape(t *testing.T) {
	s := newStore(t)

	path, err := s.Write([]byte("x"), "../../escape.md")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != mustAbs(t, s.Dir()) {
		t.Errorf("path %q escaped workspace", path)
	}
}

func TestWrite_ConcurrentSameNameNeverCollides(t *testing.T) {
	s := newStore(t)
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }

	const n = 64
	paths := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = s.Write([]byte("x"), "same.md")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i, p := range paths {
		if errs[i] != nil {
			t.Fatalf("write %d: %v", i, errs[i])
		}
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate scratch path %q", p)
		}
		seen[p] = struct{}{}
	}
}

func TestSweep_RemovesOnlyOldFiles(t *testing.T) {
	s := newStore(t)

	oldPath, err := s.Write([]byte("old"), "old.json")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	freshPath, err := s.Write([]byte("fresh"), "fresh.json")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Mkdir(filepath.Join(s.Dir(), "subdir"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	removed, err := s.Sweep(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old file should be swept")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Errorf("fresh file should survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "subdir")); err != nil {
		t.Errorf("directories must not be swept: %v", err)
	}
}

func TestSweep_MissingWorkspace(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if _, err := s.Sweep(context.Background(), time.Minute); err == nil {
		t.Fatal("expected error for missing workspace")
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return abs
}
