package certs

import (
	"os"
	"time"

	"github.com/go-acme/lego/v4/certcrypto"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
)

// Info describes the leaf certificate of a PEM file
type Info struct {
	Path      string    `json:"path"`
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	DNSNames  []string  `json:"dns_names"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	KeyValid  bool      `json:"key_valid"`
}

// Expired reports whether the certificate is expired at now
func (i *Info) Expired(now time.Time) bool {
	return now.After(i.NotAfter)
}

// DaysLeft returns the whole days until expiry
func (i *Info) DaysLeft(now time.Time) int {
	return int(i.NotAfter.Sub(now).Hours() / 24)
}

// Inspect parses the served certificate of b and checks that its key parses
func Inspect(b *Bundle) (*Info, error) {
	path := b.ServedCrt()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vherrors.Certificate(b.Domain, "read certificate", err)
	}

	cert, err := certcrypto.ParsePEMCertificate(data)
	if err != nil {
		return nil, vherrors.Certificate(b.Domain, "parse certificate "+path, err)
	}

	info := &Info{
		Path:      path,
		Subject:   cert.Subject.CommonName,
		Issuer:    cert.Issuer.CommonName,
		DNSNames:  cert.DNSNames,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}

	if key, err := os.ReadFile(b.Key.Path); err == nil {
		_, err := certcrypto.ParsePEMPrivateKey(key)
		info.KeyValid = err == nil
	}
	return info, nil
}
