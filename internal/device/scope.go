package device

import "fmt"

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeGlobal
	scopeVDOM
)

// Scope selects the configuration partition every device-facing command runs
// against: the bare CLI, the global partition, or a named VDOM. The zero
// value is the unscoped CLI.
type Scope struct {
	kind scopeKind
	vdom string
}

// GlobalScope returns the scope for the device's global partition.
func GlobalScope() Scope {
	return Scope{kind: scopeGlobal}
}

// VDOMScope returns the scope for a named VDOM.
func VDOMScope(name string) Scope {
	return Scope{kind: scopeVDOM, vdom: name}
}

// VDOM returns the VDOM name, or "" when the scope is not a named VDOM.
func (s Scope) VDOM() string {
	return s.vdom
}

// String returns the scope in a form suitable for logs.
func (s Scope) String() string {
	switch s.kind {
	case scopeGlobal:
		return "global"
	case scopeVDOM:
		return "vdom:" + s.vdom
	default:
		return "none"
	}
}

// ReadCommand builds the scoped command that reads a configuration path.
func (s Scope) ReadCommand(path string) string {
	switch s.kind {
	case scopeGlobal:
		return fmt.Sprintf("conf global\nshow %s\nend", path)
	case scopeVDOM:
		return fmt.Sprintf("conf vdom\nedit %s\nshow %s\nend", s.vdom, path)
	default:
		return fmt.Sprintf("show %s", path)
	}
}

// batchPreamble is the prefix for batch-protocol commands. Any scoped
// session enters the global partition first; the VDOM is selected again
// inside the batch by vdomEdit.
func (s Scope) batchPreamble() string {
	if s.kind == scopeNone {
		return ""
	}
	return "conf global\n    "
}

// vdomEdit is the in-batch VDOM selection emitted after "execute batch
// start" for named-VDOM scopes.
func (s Scope) vdomEdit() string {
	if s.kind != scopeVDOM {
		return ""
	}
	return fmt.Sprintf("conf vdom\n  edit %s\n", s.vdom)
}
