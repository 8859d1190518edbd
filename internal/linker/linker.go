// Package linker creates the symlinks rproxy manages: enable-links in the
// nginx enabled directory and Let's Encrypt links into the ACME live tree.
//
// Two routines exist, selected by the server's website_symlinks_rel setting:
// Relative computes a target relative to the link's directory and calls
// os.Symlink; Command runs `ln -s` through the executor with absolute paths.
package linker

import (
	"os"
	"path/filepath"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/executor"
	"github.com/ksyq12/rproxy/internal/logger"
)

// Linker creates a symlink at link pointing to target
type Linker interface {
	Link(target, link string) error
}

// New returns the relative or absolute linker
func New(relative bool, exec executor.CommandExecutor) Linker {
	if relative {
		return Relative{}
	}
	return &Command{Exec: exec}
}

// Relative links with a target relative to the link's directory
type Relative struct{}

// Link implements Linker
func (Relative) Link(target, link string) error {
	if _, err := executor.SanitizePath(target); err != nil {
		return err
	}
	if _, err := executor.SanitizePath(link); err != nil {
		return err
	}

	rel, err := filepath.Rel(filepath.Dir(link), target)
	if err != nil {
		return vherrors.Filesystem("relativize", target, err)
	}
	if err := os.Symlink(rel, link); err != nil {
		return vherrors.Filesystem("symlink", link, err)
	}
	logger.Debug("Created relative link %s -> %s", link, rel)
	return nil
}

// Command links with `ln -s` and absolute paths
type Command struct {
	Exec executor.CommandExecutor
}

// Link implements Linker
func (c *Command) Link(target, link string) error {
	target, err := executor.SanitizePath(target)
	if err != nil {
		return err
	}
	link, err = executor.SanitizePath(link)
	if err != nil {
		return err
	}

	if err := executor.Run(c.Exec, "ln", "-s", target, link); err != nil {
		return err
	}
	logger.Debug("Created symlink %s -> %s", link, target)
	return nil
}

// Replace removes an existing entry at link before linking. Regular files are
// left alone and reported as an error.
func Replace(l Linker, target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return vherrors.Filesystem("replace", link, os.ErrExist)
	case err == nil:
		if err := os.Remove(link); err != nil {
			return vherrors.Filesystem("unlink", link, err)
		}
	case !os.IsNotExist(err):
		return vherrors.Filesystem("lstat", link, err)
	}
	return l.Link(target, link)
}

// Mock records link requests and creates real symlinks unless LinkFunc is set
type Mock struct {
	LinkFunc func(target, link string) error
	Calls    [][2]string
}

// Link implements Linker
func (m *Mock) Link(target, link string) error {
	m.Calls = append(m.Calls, [2]string{target, link})
	if m.LinkFunc != nil {
		return m.LinkFunc(target, link)
	}
	return os.Symlink(target, link)
}
