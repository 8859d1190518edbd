// Package platform provides default nginx directory detection for hosts whose
// config file does not name the vhost directories explicitly.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// PathConfig contains the nginx vhost directories.
type PathConfig struct {
	Available string
	Enabled   string
}

// candidate layouts, most common first
var layouts = []PathConfig{
	// Debian/Ubuntu
	{Available: "/etc/nginx/sites-available", Enabled: "/etc/nginx/sites-enabled"},
	// Homebrew on Apple Silicon
	{Available: "/opt/homebrew/etc/nginx/sites-available", Enabled: "/opt/homebrew/etc/nginx/sites-enabled"},
	// Homebrew on Intel
	{Available: "/usr/local/etc/nginx/sites-available", Enabled: "/usr/local/etc/nginx/sites-enabled"},
}

// DetectPaths returns the nginx directories of the current host.
func DetectPaths() (PathConfig, error) {
	switch runtime.GOOS {
	case "darwin", "linux":
		return DetectPathsIn("/")
	default:
		return PathConfig{}, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// DetectPathsIn looks for a known layout below root. A layout matches when
// its available directory exists, or when its parent nginx directory exists
// (the directories are then created on first write).
func DetectPathsIn(root string) (PathConfig, error) {
	for _, l := range layouts {
		if pathExists(filepath.Join(root, l.Available)) {
			return rooted(root, l), nil
		}
	}
	for _, l := range layouts {
		if pathExists(filepath.Join(root, filepath.Dir(l.Available))) {
			return rooted(root, l), nil
		}
	}
	return PathConfig{}, fmt.Errorf("nginx configuration directory not found (checked /etc/nginx, /opt/homebrew/etc/nginx, /usr/local/etc/nginx)")
}

func rooted(root string, l PathConfig) PathConfig {
	return PathConfig{
		Available: filepath.Join(root, l.Available),
		Enabled:   filepath.Join(root, l.Enabled),
	}
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
