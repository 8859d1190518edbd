// Package lifecycle sequences resolution, rendering and reconciliation for
// each domain event and issues a single nginx reload per event.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ksyq12/rproxy/internal/certs"
	"github.com/ksyq12/rproxy/internal/config"
	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/logger"
	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/reconcile"
	"github.com/ksyq12/rproxy/internal/resolver"
	"github.com/ksyq12/rproxy/internal/template"
)

// Store is the part of the record store the controller reads
type Store interface {
	resolver.Lookup
	TopLevelDomainsByClient(ctx context.Context, clientID int64) ([]model.DomainRecord, error)
}

// Controller handles domain events for one server. Events must be delivered
// one at a time.
type Controller struct {
	store      Store
	resolver   *resolver.Resolver
	engine     template.Engine
	reconciler *reconcile.Reconciler
	reloader   reconcile.Reloader
	server     config.ServerContext
	dryRun     bool
}

// Options configures a Controller
type Options struct {
	Store      Store
	Certs      *certs.Resolver
	Engine     template.Engine
	Reconciler *reconcile.Reconciler
	Reloader   reconcile.Reloader
	Server     config.ServerContext
	DryRun     bool
}

// New creates a Controller
func New(opts Options) *Controller {
	return &Controller{
		store:      opts.Store,
		resolver:   resolver.New(opts.Store, opts.Certs, opts.Server),
		engine:     opts.Engine,
		reconciler: opts.Reconciler,
		reloader:   opts.Reloader,
		server:     opts.Server,
		dryRun:     opts.DryRun,
	}
}

// Handle processes one event. Resolution failures abort before anything is
// written. Filesystem failures stop the event, but the reload is still issued
// when earlier ops were applied. Nothing is retried or rolled back.
func (c *Controller) Handle(ctx context.Context, ev model.Event) (*Result, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:  uuid.NewString(),
		Kind:   ev.Kind,
		DryRun: c.dryRun,
	}
	logger.InfoFields("handling event", map[string]interface{}{
		"run_id":  res.RunID,
		"kind":    string(ev.Kind),
		"dry_run": c.dryRun,
	})

	var err error
	switch ev.Kind {
	case model.EventInsert:
		err = c.generate(ctx, res, reconcile.Insert, ev.New, ev.New)
	case model.EventUpdate:
		old := ev.Old
		if old == nil {
			old = ev.New
		}
		err = c.generate(ctx, res, reconcile.Update, old, ev.New)
	case model.EventDelete:
		err = c.delete(ctx, res, ev.Old)
	case model.EventSSL:
		err = c.ssl(res, ev.New)
	case model.EventClientDelete:
		err = c.clientDelete(ctx, res, ev.Old.ClientID)
	}
	if err != nil {
		logger.ErrorFields("event failed", map[string]interface{}{
			"run_id": res.RunID,
			"error":  err.Error(),
		})
	}

	if res.Changed() && !c.dryRun {
		if rerr := c.reloader.Reload(); rerr != nil {
			logger.ErrorFields("reload failed", map[string]interface{}{
				"run_id": res.RunID,
				"error":  rerr.Error(),
			})
			err = errors.Join(err, rerr)
		} else {
			res.Reloaded = true
			logger.InfoFields("reload issued", map[string]interface{}{"run_id": res.RunID})
		}
	}

	return res, err
}

// generate renders rec and reconciles its artifacts. Alias and subdomain
// records regenerate their parent vhost instead.
func (c *Controller) generate(ctx context.Context, res *Result, action reconcile.Action, old, rec *model.DomainRecord) error {
	if rec.Type.Cascades() {
		parent, err := c.resolver.Canonical(ctx, rec)
		if err != nil {
			return err
		}
		logger.Debug("%s %s cascades to %s", rec.Type, rec.Domain, parent.Domain)
		action, old, rec = reconcile.Update, parent, parent
	}

	oldDomain := rec.Domain
	if old != nil && old.Type.HasArtifacts() && old.Domain != "" {
		oldDomain = old.Domain
	}
	// names are checked before any certificate link or file is touched
	if _, err := c.reconciler.Paths().Artifact(oldDomain, rec.Domain); err != nil {
		return domainErr(rec.Domain, err)
	}

	spec, bundle, err := c.resolver.Resolve(ctx, rec, !c.dryRun)
	if err != nil {
		return err
	}
	if c.mergeCertificate(res, rec) {
		if spec, bundle, err = c.resolver.Resolve(ctx, rec, false); err != nil {
			return err
		}
	}
	for _, w := range bundle.Warnings {
		res.warn(rec.Domain, w)
	}

	content, err := template.RenderVhost(c.engine, c.server.TemplateName, spec)
	if err != nil {
		return vherrors.Wrap(vherrors.ErrCodeInternal, "render "+rec.Domain, err)
	}

	out, err := c.reconciler.Reconcile(action, oldDomain, rec.Domain, bool(rec.Active), content)
	res.add(rec.Domain, out, len(spec.ListenBlocks) > 1)
	if err != nil {
		return domainErr(rec.Domain, err)
	}

	if !c.dryRun {
		if err := reconcile.RemoveBackup(out.Artifact.FileNew); err != nil {
			res.warn(rec.Domain, err.Error())
		}
	}
	return nil
}

// mergeCertificate rebuilds the nginx certificate of a vhost with its own
// certificate files. It reports whether the file was rewritten.
func (c *Controller) mergeCertificate(res *Result, rec *model.DomainRecord) bool {
	if c.dryRun || !bool(rec.SSL) || bool(rec.SSLLetsEncrypt) || !rec.Type.HasArtifacts() {
		return false
	}
	_, err := certs.Reconcile(rec)
	if err != nil {
		logger.Warn("Creating nginx ssl files failed for %s: %v", rec.Domain, err)
		res.warn(rec.Domain, err.Error())
		return false
	}
	return true
}

// delete removes the artifacts of a vhost. Deleting an alias or subdomain
// regenerates its parent without it.
func (c *Controller) delete(ctx context.Context, res *Result, old *model.DomainRecord) error {
	switch {
	case old.Type.HasArtifacts():
		out, err := c.reconciler.Reconcile(reconcile.Delete, old.Domain, old.Domain, false, "")
		res.add(old.Domain, out, false)
		if err != nil {
			return domainErr(old.Domain, err)
		}
		return nil
	case old.Type.Cascades():
		return c.generate(ctx, res, reconcile.Update, old, old)
	default:
		return vherrors.Validation(fmt.Sprintf("unknown domain type %q", old.Type))
	}
}

// ssl replaces or removes the merged nginx certificate of a vhost. Missing
// source material is reported as a warning.
func (c *Controller) ssl(res *Result, rec *model.DomainRecord) error {
	if !rec.Type.HasArtifacts() {
		logger.Debug("Skipping ssl event for %s record %s", rec.Type, rec.Domain)
		return nil
	}
	if c.dryRun {
		b := certs.Paths(rec)
		logger.Info("[dry-run] ssl %s %s", sslVerb(rec), b.NginxCrt.Path)
		return nil
	}

	_, err := certs.Reconcile(rec)
	if vherrors.Is(err, vherrors.ErrCertificate) {
		logger.Warn("Creating nginx ssl files failed for %s: %v", rec.Domain, err)
		res.warn(rec.Domain, err.Error())
		return nil
	}
	return err
}

// domainErr attributes err to domain, keeping its code
func domainErr(domain string, err error) error {
	code := vherrors.CodeOf(err)
	if code == "" {
		code = vherrors.ErrCodeInternal
	}
	return vherrors.WrapDomain(code, domain, err)
}

func sslVerb(rec *model.DomainRecord) string {
	if rec.SSLAction == model.SSLActionDelete {
		return "delete"
	}
	return "update"
}

// clientDelete deletes every top-level vhost of a client. Domains are
// processed independently; failures are collected.
func (c *Controller) clientDelete(ctx context.Context, res *Result, clientID int64) error {
	domains, err := c.store.TopLevelDomainsByClient(ctx, clientID)
	if err != nil {
		return vherrors.Wrap(vherrors.ErrCodeInternal, fmt.Sprintf("list domains of client %d", clientID), err)
	}

	var errs []error
	for i := range domains {
		d := &domains[i]
		out, err := c.reconciler.Reconcile(reconcile.Delete, d.Domain, d.Domain, false, "")
		res.add(d.Domain, out, false)
		if err != nil {
			errs = append(errs, domainErr(d.Domain, err))
			continue
		}
		logger.Debug("Removing vhost file: %s", d.Domain)
	}
	return errors.Join(errs...)
}

// Render resolves and renders rec without side effects
func (c *Controller) Render(ctx context.Context, rec *model.DomainRecord) (*model.VhostSpec, string, error) {
	canonical, err := c.resolver.Canonical(ctx, rec)
	if err != nil {
		return nil, "", err
	}
	spec, _, err := c.resolver.Resolve(ctx, canonical, false)
	if err != nil {
		return nil, "", err
	}
	content, err := template.RenderVhost(c.engine, c.server.TemplateName, spec)
	if err != nil {
		return nil, "", err
	}
	return spec, content, nil
}
