package lifecycle

import (
	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/reconcile"
)

// Result is the outcome of one event
type Result struct {
	RunID    string          `json:"run_id"`
	Kind     model.EventKind `json:"kind"`
	DryRun   bool            `json:"dry_run"`
	Domains  []DomainResult  `json:"domains"`
	Reloaded bool            `json:"reloaded"`
	Warnings []string        `json:"warnings,omitempty"`
}

// DomainResult is the outcome for one reconciled domain
type DomainResult struct {
	Domain   string              `json:"domain"`
	Action   string              `json:"action"`
	HTTPS    bool                `json:"https"`
	Artifact *reconcile.Artifact `json:"artifact,omitempty"`
	Planned  []reconcile.Op      `json:"planned"`
	Applied  []reconcile.Op      `json:"applied"`
}

// Changed reports whether any filesystem op was applied
func (r *Result) Changed() bool {
	for _, d := range r.Domains {
		if len(d.Applied) > 0 {
			return true
		}
	}
	return false
}

func (r *Result) add(domain string, out *reconcile.Result, https bool) {
	if out == nil {
		return
	}
	r.Domains = append(r.Domains, DomainResult{
		Domain:   domain,
		Action:   out.Action.String(),
		HTTPS:    https,
		Artifact: out.Artifact,
		Planned:  out.Planned,
		Applied:  out.Applied,
	})
}

func (r *Result) warn(domain, msg string) {
	r.Warnings = append(r.Warnings, domain+": "+msg)
}
