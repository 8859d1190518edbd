package certs

import (
	"os"
	"path/filepath"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
)

// Merge writes the nginx certificate: the certificate followed by a newline
// and the bundle when one exists, the certificate alone otherwise.
func Merge(b *Bundle) error {
	if !b.Crt.Exists {
		return vherrors.Certificate(b.Domain, "certificate not found: "+b.Crt.Path, os.ErrNotExist)
	}

	data, err := os.ReadFile(b.Crt.Path)
	if err != nil {
		return vherrors.Filesystem("read", b.Crt.Path, err)
	}

	if b.Chain.Exists {
		chain, err := os.ReadFile(b.Chain.Path)
		if err != nil {
			return vherrors.Filesystem("read", b.Chain.Path, err)
		}
		data = append(data, '\n')
		data = append(data, chain...)
		logger.Debug("Merging ssl cert and bundle file: %s", b.NginxCrt.Path)
	} else {
		logger.Debug("Copying ssl cert file: %s", b.NginxCrt.Path)
	}

	if err := writeAtomic(b.NginxCrt.Path, data, 0644); err != nil {
		return err
	}
	probe(&b.NginxCrt)
	return nil
}

// Remove deletes the nginx certificate. The source files are never touched.
func Remove(b *Bundle) error {
	if _, err := os.Lstat(b.NginxCrt.Path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(b.NginxCrt.Path); err != nil {
		return vherrors.Filesystem("unlink", b.NginxCrt.Path, err)
	}
	logger.Debug("Removing ssl cert file: %s", b.NginxCrt.Path)
	b.NginxCrt.Exists = false
	b.NginxCrt.Size = 0
	return nil
}

// Reconcile applies an ssl change of rec: ssl_action del removes the nginx
// certificate, anything else replaces it. A missing source certificate is
// returned as a certificate error after the old file was removed.
func Reconcile(rec *model.DomainRecord) (*Bundle, error) {
	b := Paths(rec)
	if b.Domain == "" {
		return b, vherrors.Certificate(rec.Domain, "ssl domain not set", nil)
	}
	b.Probe()

	if err := Remove(b); err != nil {
		return b, err
	}
	if rec.SSLAction == model.SSLActionDelete {
		return b, nil
	}
	return b, Merge(b)
}

// writeAtomic writes data next to path and renames it into place
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return vherrors.Filesystem("create", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return vherrors.Filesystem("write", tmp.Name(), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return vherrors.Filesystem("chmod", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return vherrors.Filesystem("close", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return vherrors.Filesystem("rename", path, err)
	}
	return nil
}
