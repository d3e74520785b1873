package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestInitAndFind(t *testing.T) {
	base := t.TempDir()

	dir, err := Init(base)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if filepath.Base(dir) != DirName {
		t.Errorf("Init created %s", dir)
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Errorf("default config missing: %v", err)
	}

	got, err := Find(base)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != dir {
		t.Errorf("Find = %s, want %s", got, dir)
	}
}

func TestFindWalksUp(t *testing.T) {
	base := t.TempDir()
	dir, err := Init(base)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	nested := filepath.Join(base, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find from nested dir: %v", err)
	}
	if got != dir {
		t.Errorf("Find = %s, want %s", got, dir)
	}
}

func TestFindNotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find = %v, want ErrNotFound", err)
	}
}

func TestInitTwice(t *testing.T) {
	base := t.TempDir()
	if _, err := Init(base); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(base); !errors.Is(err, ErrExists) {
		t.Fatalf("second Init = %v, want ErrExists", err)
	}
}
