package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetectPaths(t *testing.T) {
	paths, err := DetectPaths()

	switch runtime.GOOS {
	case "darwin", "linux":
		if err != nil {
			t.Logf("Detection failed (expected when nginx is not installed): %v", err)
			return
		}
		if paths.Available == "" || paths.Enabled == "" {
			t.Errorf("incomplete paths %+v", paths)
		}
	default:
		if err == nil {
			t.Errorf("expected error on unsupported platform %s, but got nil", runtime.GOOS)
		}
	}
}

func TestDetectPathsIn(t *testing.T) {
	t.Run("debian layout", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "etc/nginx/sites-available"), 0755); err != nil {
			t.Fatal(err)
		}

		paths, err := DetectPathsIn(root)
		if err != nil {
			t.Fatalf("DetectPathsIn failed: %v", err)
		}
		if paths.Available != filepath.Join(root, "etc/nginx/sites-available") {
			t.Errorf("unexpected available %s", paths.Available)
		}
		if paths.Enabled != filepath.Join(root, "etc/nginx/sites-enabled") {
			t.Errorf("unexpected enabled %s", paths.Enabled)
		}
	})

	t.Run("homebrew nginx dir without sites", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "opt/homebrew/etc/nginx"), 0755); err != nil {
			t.Fatal(err)
		}

		paths, err := DetectPathsIn(root)
		if err != nil {
			t.Fatalf("DetectPathsIn failed: %v", err)
		}
		if !strings.HasPrefix(paths.Available, filepath.Join(root, "opt/homebrew")) {
			t.Errorf("unexpected available %s", paths.Available)
		}
	})

	t.Run("explicit sites dir wins over bare nginx dir", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "etc/nginx"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(root, "usr/local/etc/nginx/sites-available"), 0755); err != nil {
			t.Fatal(err)
		}

		paths, err := DetectPathsIn(root)
		if err != nil {
			t.Fatalf("DetectPathsIn failed: %v", err)
		}
		if !strings.HasPrefix(paths.Available, filepath.Join(root, "usr/local")) {
			t.Errorf("unexpected available %s", paths.Available)
		}
	})

	t.Run("nothing installed", func(t *testing.T) {
		if _, err := DetectPathsIn(t.TempDir()); err == nil {
			t.Error("expected error when nginx is not installed")
		}
	})
}

func TestPathExists(t *testing.T) {
	if !pathExists("/") {
		t.Error("root path should exist")
	}
	if pathExists("/this/path/should/definitely/not/exist/anywhere") {
		t.Error("non-existent path should return false")
	}
}

func TestPlatform(t *testing.T) {
	if Platform() != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform string %s", Platform())
	}
}
