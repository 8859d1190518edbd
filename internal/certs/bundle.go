package certs

import (
	"os"
	"path/filepath"

	"github.com/ksyq12/rproxy/internal/model"
)

// File name suffixes
const (
	sslDirName    = "ssl"
	leSuffix      = "-le"
	nginxSuffix   = ".nginx"
	crtExt        = ".crt"
	keyExt        = ".key"
	bundleExt     = ".bundle"
	livePrivKey   = "privkey.pem"
	liveFullChain = "fullchain.pem"
)

// File is a probed certificate file
type File struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size"`
}

// Usable reports whether the file exists and is non-empty
func (f File) Usable() bool {
	return f.Exists && f.Size > 0
}

// Bundle is the certificate material of one vhost
type Bundle struct {
	Domain      string   `json:"ssl_domain"`
	Dir         string   `json:"dir"`
	SSL         bool     `json:"ssl"`
	LetsEncrypt bool     `json:"letsencrypt"`
	Crt         File     `json:"crt"`
	Key         File     `json:"key"`
	Chain       File     `json:"bundle"`
	NginxCrt    File     `json:"nginx_crt"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Paths returns the standard certificate paths of rec, unprobed
func Paths(rec *model.DomainRecord) *Bundle {
	dir := filepath.Join(rec.DocumentRoot, sslDirName)
	base := filepath.Join(dir, rec.SSLDomain)
	return &Bundle{
		Domain:   rec.SSLDomain,
		Dir:      dir,
		SSL:      bool(rec.SSL),
		Crt:      File{Path: base + crtExt},
		Key:      File{Path: base + keyExt},
		Chain:    File{Path: base + bundleExt},
		NginxCrt: File{Path: base + nginxSuffix + crtExt},
	}
}

// lePaths retargets b to the Let's Encrypt file names of domain. The nginx
// certificate doubles as the served certificate.
func (b *Bundle) lePaths(domain string) {
	base := filepath.Join(b.Dir, domain+leSuffix)
	b.Domain = domain
	b.LetsEncrypt = true
	b.Key = File{Path: base + keyExt}
	b.Chain = File{Path: base + bundleExt}
	b.NginxCrt = File{Path: base + nginxSuffix + crtExt}
	b.Crt = b.NginxCrt
}

// Probe refreshes the existence flags. Symlinks are followed.
func (b *Bundle) Probe() {
	for _, f := range []*File{&b.Crt, &b.Key, &b.Chain, &b.NginxCrt} {
		probe(f)
	}
}

func probe(f *File) {
	info, err := os.Stat(f.Path)
	if err != nil || !info.Mode().IsRegular() {
		f.Exists = false
		f.Size = 0
		return
	}
	f.Exists = true
	f.Size = info.Size()
}

// Eligible reports whether the vhost can be served over HTTPS
func (b *Bundle) Eligible() bool {
	return b.Domain != "" && b.SSL && b.Crt.Usable() && b.Key.Usable()
}

// ServedCrt is the certificate path bound into the vhost. The merged nginx
// certificate is preferred when it exists.
func (b *Bundle) ServedCrt() string {
	if b.NginxCrt.Usable() {
		return b.NginxCrt.Path
	}
	return b.Crt.Path
}

// ServedChain is the bundle path bound into the vhost, empty when absent
func (b *Bundle) ServedChain() string {
	if b.Chain.Exists {
		return b.Chain.Path
	}
	return ""
}

func (b *Bundle) warn(msg string) {
	b.Warnings = append(b.Warnings, msg)
}
