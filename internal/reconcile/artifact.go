package reconcile

import (
	"os"
	"path/filepath"

	"github.com/ksyq12/rproxy/internal/executor"
)

// VhostExt is the extension of managed config files
const VhostExt = ".vhost"

// Paths contains the nginx config directory paths
type Paths struct {
	Available string // config available directory
	Enabled   string // config enabled directory
}

// Artifact is the on-disk identity of one domain before and after an event.
// Old and new paths only differ on a rename.
type Artifact struct {
	FileOld       string `json:"file_old"`
	LinkOld       string `json:"link_old"`
	FileNew       string `json:"file_new"`
	LinkNew       string `json:"link_new"`
	FileOldExists bool   `json:"file_old_exists"`
	LinkOldExists bool   `json:"link_old_exists"`
	FileNewExists bool   `json:"file_new_exists"`
	LinkNewExists bool   `json:"link_new_exists"`
}

// Artifact returns the probed artifact of a domain renamed from oldDomain to
// newDomain. Pass the same name twice when nothing was renamed.
func (p Paths) Artifact(oldDomain, newDomain string) (*Artifact, error) {
	a := &Artifact{
		FileOld: filepath.Join(p.Available, oldDomain+VhostExt),
		LinkOld: filepath.Join(p.Enabled, oldDomain+VhostExt),
		FileNew: filepath.Join(p.Available, newDomain+VhostExt),
		LinkNew: filepath.Join(p.Enabled, newDomain+VhostExt),
	}
	for _, path := range []string{a.FileOld, a.LinkOld, a.FileNew, a.LinkNew} {
		if _, err := executor.SanitizePath(path); err != nil {
			return nil, err
		}
	}
	a.Probe()
	return a, nil
}

// Renamed reports whether old and new identities differ
func (a *Artifact) Renamed() bool {
	return a.FileOld != a.FileNew
}

// Probe refreshes the existence flags
func (a *Artifact) Probe() {
	a.FileOldExists = isFile(a.FileOld)
	a.FileNewExists = isFile(a.FileNew)
	a.LinkOldExists = isLink(a.LinkOld)
	a.LinkNewExists = isLink(a.LinkNew)
}

func isFile(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

func isLink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
