// Package reconcile keeps the nginx available/enabled directories in sync
// with the desired vhost state.
//
// Each canonical domain owns one config file and, when active, one enable
// symlink:
//
//	<available>/<domain>.vhost
//	<enabled>/<domain>.vhost -> <available>/<domain>.vhost
//
// Reconciliation is split into three steps. An Artifact is probed for the
// old and new names of a domain, Plan turns the probe and an Action into an
// ordered list of Ops without touching the filesystem, and Apply executes the
// ops. Dry runs stop after Plan.
//
// # Actions
//
//	Insert  write file_new, link it when active and not linked yet
//	Update  remove file_old and link_old, then Insert
//	Delete  remove file_old and link_old
//
// After every successful run a link implies its file, and an inactive domain
// has no link.
package reconcile
