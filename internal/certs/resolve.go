package certs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/rproxy/internal/linker"
	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
)

// Resolver locates certificate material and maintains Let's Encrypt links
type Resolver struct {
	ACMELiveDir string
	Linker      linker.Linker
}

// NewResolver creates a Resolver
func NewResolver(acmeLiveDir string, l linker.Linker) *Resolver {
	return &Resolver{ACMELiveDir: acmeLiveDir, Linker: l}
}

// Resolve computes and probes the certificate paths of rec. In Let's Encrypt
// mode the links into the ACME live directory are created when materialize
// is set. Missing material never fails resolution; it is reported through
// Bundle.Warnings and makes the bundle ineligible.
func (r *Resolver) Resolve(rec *model.DomainRecord, materialize bool) *Bundle {
	b := Paths(rec)

	if rec.SSL && rec.SSLLetsEncrypt {
		domain := rec.Domain
		if rest, ok := strings.CutPrefix(domain, "*."); ok {
			b.warn(fmt.Sprintf("wildcard domains are not supported in Let's Encrypt mode, using %s", rest))
			logger.Warn("Wildcard domain %s not supported by Let's Encrypt, using %s", domain, rest)
			domain = rest
		}
		b.lePaths(domain)
		logger.Debug("LE: ssl domain is %s, ssl dir is %s", domain, b.Dir)

		if materialize {
			r.linkLive(b)
		}
	}

	b.Probe()
	return b
}

// linkLive links the key when it is missing and always relinks the
// certificate to the live full chain.
func (r *Resolver) linkLive(b *Bundle) {
	live := filepath.Join(r.ACMELiveDir, b.Domain)
	liveKey := filepath.Join(live, livePrivKey)
	liveChain := filepath.Join(live, liveFullChain)

	if _, err := os.Stat(b.Key.Path); err != nil {
		if _, err := os.Stat(liveKey); err == nil {
			if err := linker.Replace(r.Linker, liveKey, b.Key.Path); err != nil {
				b.warn(fmt.Sprintf("linking key: %v", err))
				logger.Warn("Unable to link key for %s: %v", b.Domain, err)
			}
		} else {
			b.warn(fmt.Sprintf("no key for %s in %s", b.Domain, live))
			logger.Warn("Unable to find SSL key file for %s, are you sure the certificate has been created?", b.Domain)
		}
	}

	if err := linker.Replace(r.Linker, liveChain, b.NginxCrt.Path); err != nil {
		b.warn(fmt.Sprintf("linking certificate: %v", err))
		logger.Warn("Unable to link certificate for %s: %v", b.Domain, err)
		return
	}
	logger.Debug("Linked %s to %s", b.NginxCrt.Path, liveChain)
}
