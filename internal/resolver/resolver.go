// Package resolver turns a domain record into the fully resolved VhostSpec
// the renderer consumes.
package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ksyq12/rproxy/internal/certs"
	"github.com/ksyq12/rproxy/internal/config"
	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/rewrite"
)

// defaultWebFolder is the web folder of plain vhosts
const defaultWebFolder = "web"

// Lookup is the part of the record store the resolver reads
type Lookup interface {
	DomainByID(ctx context.Context, id int64) (*model.DomainRecord, error)
	ActiveChildren(ctx context.Context, parentID int64) ([]model.DomainRecord, error)
}

// Resolver builds VhostSpecs for one server
type Resolver struct {
	lookup Lookup
	certs  *certs.Resolver
	server config.ServerContext
}

// New creates a Resolver
func New(lookup Lookup, certResolver *certs.Resolver, server config.ServerContext) *Resolver {
	return &Resolver{lookup: lookup, certs: certResolver, server: server}
}

// Canonical returns the record that owns the artifacts of rec. Alias and
// classic subdomain records resolve to their parent vhost; every other type
// resolves to itself.
func (r *Resolver) Canonical(ctx context.Context, rec *model.DomainRecord) (*model.DomainRecord, error) {
	if !rec.Type.Cascades() {
		return rec, nil
	}

	parent, err := r.parent(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !parent.Type.HasArtifacts() {
		return nil, vherrors.Resolution(rec.Domain,
			fmt.Sprintf("parent %s is a %s record", parent.Domain, parent.Type), nil)
	}
	logger.Debug("%s %s regenerates parent %s", rec.Type, rec.Domain, parent.Domain)
	return parent, nil
}

func (r *Resolver) parent(ctx context.Context, rec *model.DomainRecord) (*model.DomainRecord, error) {
	if rec.ParentDomainID == 0 {
		return nil, vherrors.Resolution(rec.Domain, "no parent domain", nil)
	}
	parent, err := r.lookup.DomainByID(ctx, rec.ParentDomainID)
	if err != nil {
		return nil, vherrors.Resolution(rec.Domain,
			fmt.Sprintf("parent domain %d", rec.ParentDomainID), err)
	}
	return parent, nil
}

// Resolve builds the VhostSpec of rec together with its certificate bundle.
// Let's Encrypt links are only created when materialize is set.
func (r *Resolver) Resolve(ctx context.Context, rec *model.DomainRecord, materialize bool) (*model.VhostSpec, *certs.Bundle, error) {
	if !rec.Type.HasArtifacts() {
		return nil, nil, vherrors.Resolution(rec.Domain,
			fmt.Sprintf("%s records have no vhost of their own", rec.Type), nil)
	}
	if rec.DocumentRoot == "" {
		return nil, nil, vherrors.Resolution(rec.Domain, "empty document root", nil)
	}

	spec := &model.VhostSpec{
		DomainID:     rec.ID,
		Domain:       rec.Domain,
		Type:         rec.Type,
		DocumentRoot: rec.DocumentRoot,
		WebFolder:    defaultWebFolder,
		WebBasedir:   r.server.WebsiteBasedir,
		IPv6Enabled:  rec.IPv6Address != "",
		SSLDomain:    rec.SSLDomain,
		Directives:   normalizeNewlines(rec.NginxDirectives),
		ErrorDocs:    !bool(rec.ErrorDocs),
		BackendHTTP:  r.server.BackendHTTPPort,
		BackendHTTPS: r.server.BackendHTTPSPort,
	}

	if rec.Type == model.TypeVhostSubdomain {
		host, err := r.subdomainHost(ctx, rec)
		if err != nil {
			return nil, nil, err
		}
		spec.SubdomainHost = host
		if rec.WebFolder != "" {
			spec.WebFolder = rec.WebFolder
		}
	}

	spec.WebDocRoot = filepath.Join(rec.DocumentRoot, spec.WebFolder)
	spec.WebDocRootWWW = filepath.Join(r.server.WebsiteBasedir, rec.Domain, spec.WebFolder)
	logger.Debug("Web document root is %s", spec.WebDocRoot)
	logger.Debug("Web document root (www) is %s", spec.WebDocRootWWW)

	children, err := r.lookup.ActiveChildren(ctx, rec.ID)
	if err != nil {
		return nil, nil, vherrors.Resolution(rec.Domain, "alias lookup", err)
	}
	spec.Alias = rewrite.ServerAlias(rec, children)
	spec.RewriteRules = rewrite.Rules(rec)
	spec.SEO = rewrite.SEO(rec)

	bundle := r.certs.Resolve(rec, materialize)
	if bundle.LetsEncrypt {
		spec.SSLDomain = bundle.Domain
		spec.SSLLetsEncrypt = true
	}
	spec.SSLCrtFile = bundle.ServedCrt()
	spec.SSLKeyFile = bundle.Key.Path
	spec.SSLBundleFile = bundle.ServedChain()

	https := bundle.Eligible()
	if https {
		spec.HTTPToHTTPS = true
		spec.WebDocRootSSL = bundle.Dir
		logger.Debug("http to https is on for %s", rec.Domain)
	}
	spec.ListenBlocks = listenBlocks(rec, https, len(spec.RewriteRules) > 0)

	return spec, bundle, nil
}

// subdomainHost strips the parent domain from a vhostsubdomain name
func (r *Resolver) subdomainHost(ctx context.Context, rec *model.DomainRecord) (string, error) {
	parent, err := r.parent(ctx, rec)
	if err != nil {
		return "", err
	}

	host := rec.Domain
	if prefix, ok := strings.CutSuffix(rec.Domain, "."+parent.Domain); ok {
		host = prefix
	}
	if host == "" {
		host = fmt.Sprintf("web%d", rec.ID)
		logger.Debug("Dealing with subdomain host %s", host)
	}
	return host, nil
}

// listenBlocks returns the port 80 block and, for eligible vhosts, the port
// 443 block
func listenBlocks(rec *model.DomainRecord, https, rewrite bool) []model.ListenBlock {
	blocks := []model.ListenBlock{{
		IP:             rec.IPAddress,
		IPv6:           rec.IPv6Address,
		Port:           model.PortHTTP,
		HTTPToHTTPS:    https,
		RewriteEnabled: rewrite,
	}}
	if https {
		blocks = append(blocks, model.ListenBlock{
			IP:             rec.IPAddress,
			IPv6:           rec.IPv6Address,
			Port:           model.PortHTTPS,
			SSLEnabled:     true,
			RewriteEnabled: rewrite,
		})
	}
	return blocks
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
