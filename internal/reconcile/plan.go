package reconcile

import "fmt"

// Action is the reconciliation performed for one domain
type Action int

// Actions
const (
	Insert Action = iota + 1
	Update
	Delete
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// OpKind is a filesystem operation
type OpKind string

// Operation kinds
const (
	OpWrite  OpKind = "write"
	OpUnlink OpKind = "unlink"
	OpLink   OpKind = "link"
)

// Op is a single filesystem operation
type Op struct {
	Kind    OpKind `json:"op"`
	Path    string `json:"path"`
	Target  string `json:"target,omitempty"`
	Content string `json:"-"`
}

// String renders the op for logs and dry runs
func (o Op) String() string {
	if o.Kind == OpLink {
		return fmt.Sprintf("%s %s -> %s", o.Kind, o.Path, o.Target)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Path)
}

// Plan computes the ops that move a from its probed state to the state
// demanded by action. content is the rendered config for Insert and Update;
// active decides whether the enable link should exist afterwards.
func Plan(action Action, a *Artifact, active bool, content string) ([]Op, error) {
	switch action {
	case Insert:
		return planInsert(a, active, content, a.LinkNewExists), nil
	case Update:
		ops := planDelete(a)
		// link_new is gone once link_old was removed under the same name
		linked := a.LinkNewExists && a.LinkNew != a.LinkOld
		return append(ops, planInsert(a, active, content, linked)...), nil
	case Delete:
		return planDelete(a), nil
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

func planInsert(a *Artifact, active bool, content string, linked bool) []Op {
	ops := []Op{{Kind: OpWrite, Path: a.FileNew, Content: content}}
	switch {
	case active && !linked:
		ops = append(ops, Op{Kind: OpLink, Path: a.LinkNew, Target: a.FileNew})
	case !active && linked:
		ops = append(ops, Op{Kind: OpUnlink, Path: a.LinkNew})
	}
	return ops
}

func planDelete(a *Artifact) []Op {
	var ops []Op
	if a.FileOldExists {
		ops = append(ops, Op{Kind: OpUnlink, Path: a.FileOld})
	}
	if a.LinkOldExists {
		ops = append(ops, Op{Kind: OpUnlink, Path: a.LinkOld})
	}
	return ops
}
