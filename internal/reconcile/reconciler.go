package reconcile

import (
	"github.com/ksyq12/rproxy/internal/linker"
	"github.com/ksyq12/rproxy/internal/logger"
)

// Reconciler applies actions to the artifacts of one server
type Reconciler struct {
	paths  Paths
	linker linker.Linker
	dryRun bool
}

// New creates a Reconciler. Dry-run reconcilers plan but never apply.
func New(paths Paths, l linker.Linker, dryRun bool) *Reconciler {
	return &Reconciler{paths: paths, linker: l, dryRun: dryRun}
}

// Paths returns the managed directories
func (r *Reconciler) Paths() Paths {
	return r.paths
}

// Result is the outcome of reconciling one domain
type Result struct {
	Action   Action    `json:"-"`
	Artifact *Artifact `json:"artifact"`
	Planned  []Op      `json:"planned"`
	Applied  []Op      `json:"applied"`
}

// Reconcile moves the artifacts of a domain from oldDomain to newDomain.
// The returned Result carries the re-probed artifact state, also on error.
func (r *Reconciler) Reconcile(action Action, oldDomain, newDomain string, active bool, content string) (*Result, error) {
	a, err := r.paths.Artifact(oldDomain, newDomain)
	if err != nil {
		return nil, err
	}

	ops, err := Plan(action, a, active, content)
	if err != nil {
		return nil, err
	}
	res := &Result{Action: action, Artifact: a, Planned: ops}
	if r.dryRun {
		for _, op := range ops {
			logger.Info("[dry-run] %s", op)
		}
		return res, nil
	}

	res.Applied, err = Apply(ops, r.linker)
	a.Probe()
	if err != nil {
		return res, err
	}
	logger.Debug("%s %s: %d ops applied", action, newDomain, len(res.Applied))
	return res, nil
}
