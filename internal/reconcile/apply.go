package reconcile

import (
	"io"
	"os"
	"path/filepath"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/linker"
	"github.com/ksyq12/rproxy/internal/logger"
)

// BackupSuffix is appended to the copy of a config file that is overwritten
const BackupSuffix = "~"

// Apply executes ops in order and stops at the first failure. It returns the
// ops that were applied.
func Apply(ops []Op, l linker.Linker) ([]Op, error) {
	applied := make([]Op, 0, len(ops))
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpWrite:
			err = writeFile(op.Path, op.Content)
		case OpUnlink:
			err = unlink(op.Path)
		case OpLink:
			err = link(l, op.Target, op.Path)
		default:
			err = vherrors.Wrap(vherrors.ErrCodeInternal, "unknown op "+string(op.Kind), nil)
		}
		if err != nil {
			return applied, err
		}
		logger.Debug("Applied %s", op)
		applied = append(applied, op)
	}
	return applied, nil
}

// writeFile replaces path atomically. An existing file is copied to
// path~ first.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return vherrors.Filesystem("mkdir", dir, err)
	}

	if isFile(path) {
		if err := copyFile(path, path+BackupSuffix); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return vherrors.Filesystem("create", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return vherrors.Filesystem("write", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return vherrors.Filesystem("chmod", path, err)
	}
	if err := tmp.Close(); err != nil {
		return vherrors.Filesystem("close", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return vherrors.Filesystem("rename", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return vherrors.Filesystem("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return vherrors.Filesystem("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return vherrors.Filesystem("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return vherrors.Filesystem("close", dst, err)
	}
	return nil
}

// unlink removes path. A missing path is not an error.
func unlink(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return vherrors.Filesystem("unlink", path, err)
	}
	return nil
}

// link refuses to point at a missing file, so a link always implies its file
func link(l linker.Linker, target, path string) error {
	if !isFile(target) {
		return vherrors.Filesystem("link", path, os.ErrNotExist)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return vherrors.Filesystem("mkdir", dir, err)
	}
	return l.Link(target, path)
}

// RemoveBackup deletes the backup copy of path if one exists
func RemoveBackup(path string) error {
	return unlink(path + BackupSuffix)
}
